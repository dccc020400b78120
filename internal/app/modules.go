package app

import (
	"github.com/specialistvlad/miniflow/internal/config"
	"github.com/specialistvlad/miniflow/internal/hcl_adapter"
	"github.com/specialistvlad/miniflow/internal/ops"
	"github.com/specialistvlad/miniflow/internal/yamlcfg"
	"github.com/specialistvlad/miniflow/modules/add"
	"github.com/specialistvlad/miniflow/modules/linear"
	"github.com/specialistvlad/miniflow/modules/mse"
	"github.com/specialistvlad/miniflow/modules/mul"
	"github.com/specialistvlad/miniflow/modules/sigmoid"
)

// coreModules is the definitive list of all operations that are compiled
// into the miniflow binary.
var coreModules = []ops.Module{
	&add.Module{},
	&mul.Module{},
	&linear.Module{},
	&sigmoid.Module{},
	&mse.Module{},
}

// newLoader returns a loader that understands every supported file format.
func newLoader() *config.ExtensionLoader {
	l := config.NewExtensionLoader()
	l.Register(hcl_adapter.NewLoader(), hcl_adapter.Extensions...)
	l.Register(yamlcfg.NewLoader(), yamlcfg.Extensions...)
	return l
}
