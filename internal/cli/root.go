// Package cli comandos de administración del catálogo (catalogctl).
package cli

import (
	"context"
	"io"

	"github.com/spf13/cobra"

	"github.com/jhoicas/Catalogo-api/internal/infrastructure/storage"
	"github.com/jhoicas/Catalogo-api/pkg/config"
	"github.com/jhoicas/Catalogo-api/pkg/logger"
)

// RootOptions opciones globales.
type RootOptions struct {
	ConfigPath string // vacío: .env / config/ / variables de entorno
	Verbose    bool
}

// NewRootCommand crea el comando raíz de catalogctl.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "catalogctl",
		Short: "Administración del catálogo",
		Long:  "Herramientas de administración del catálogo de productos: esquema, carga inicial y tokens.",
	}

	cmd.PersistentFlags().StringVarP(&opts.ConfigPath, "config", "c", "", "archivo de configuración (env, yaml, json)")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "log en nivel debug")

	cmd.AddCommand(NewMigrateCommand(opts))
	cmd.AddCommand(NewSeedCommand(opts))
	cmd.AddCommand(NewTokenCommand(opts))

	return cmd
}

func (o *RootOptions) load() (*config.Config, error) {
	return config.LoadFile(o.ConfigPath)
}

// logger escribe en w (stderr del comando) para no mezclarse con la salida.
func (o *RootOptions) logger(cfg *config.Config, w io.Writer) *logger.Logger {
	level := cfg.Log.Level
	if o.Verbose {
		level = "debug"
	}
	return logger.New(logger.Config{Env: cfg.App.Env, Level: level, Output: w, App: "catalogctl"})
}

func (o *RootOptions) openStore(ctx context.Context, cfg *config.Config) (storage.Store, error) {
	return storage.Open(ctx, cfg, nil)
}
