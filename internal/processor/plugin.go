package processor

import (
	"sync"

	"go.uber.org/zap"
)

// RegisterFunc adds a plugin's processors to a registry.
type RegisterFunc func(r *Registry)

type plugin struct {
	meta Metadata
	fn   RegisterFunc
}

var (
	pluginMu sync.Mutex
	plugins  []plugin
)

// RegisterPlugin records a plugin for later loading. Plugins call this
// from an init function; LoadPlugins applies them in registration
// order.
func RegisterPlugin(meta Metadata, fn RegisterFunc) {
	pluginMu.Lock()
	defer pluginMu.Unlock()
	plugins = append(plugins, plugin{meta: meta, fn: fn})
}

// LoadPlugins applies every registered plugin to r, logging each
// plugin's metadata.
func LoadPlugins(r *Registry, logger *zap.Logger) {
	pluginMu.Lock()
	defer pluginMu.Unlock()
	for _, p := range plugins {
		p.fn(r)
		logger.Info("plugin loaded",
			zap.String("name", p.meta.Name),
			zap.String("version", p.meta.Version),
			zap.String("description", p.meta.Description),
		)
	}
}
