// Package commands holds the agency_finder subcommands and the wiring they share.
package commands

import (
	"github.com/spf13/cobra"

	"github.com/gcbaptista/agency-finder/config"
	"github.com/gcbaptista/agency-finder/internal/crm"
	"github.com/gcbaptista/agency-finder/internal/engine"
	"github.com/gcbaptista/agency-finder/internal/errors"
	"github.com/gcbaptista/agency-finder/internal/logger"
	"github.com/gcbaptista/agency-finder/services"
)

// Settings is loaded once by Initialize before any subcommand runs.
var Settings *config.Settings

// Initialize loads configuration, letting root persistent flags override
// file and environment values, and sets up the global logger.
func Initialize(cmd *cobra.Command) error {
	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return err
	}

	v, err := config.NewViper(configPath)
	if err != nil {
		return err
	}
	if flag := cmd.Flags().Lookup("log-json"); flag != nil && flag.Changed {
		if err := v.BindPFlag("log.json", flag); err != nil {
			return errors.Wrap(err, "binding --log-json")
		}
	}
	if flag := cmd.Flags().Lookup("log-level"); flag != nil && flag.Changed {
		if err := v.BindPFlag("log.level", flag); err != nil {
			return errors.Wrap(err, "binding --log-level")
		}
	}

	settings, err := config.LoadWithViper(v)
	if err != nil {
		return err
	}
	if err := logger.Initialize(settings.Log.JSON, settings.Log.Level); err != nil {
		return errors.Wrap(err, "failed to initialize logger")
	}

	Settings = settings
	return nil
}

// openBackend builds the configured search backend. The local engine is
// also returned so callers can use its record-level operations; it is nil
// for remote backends.
func openBackend(settings config.BackendSettings) (services.Backend, *engine.Engine, error) {
	switch settings.Kind {
	case config.BackendCRM:
		logger.Logger.Infow("Using CRM backend", "base_url", settings.BaseURL, "object_type", settings.ObjectType)
		return crm.NewClient(settings), nil, nil
	case config.BackendLocal, "":
		logger.Logger.Infow("Using local backend", "data_dir", settings.DataDir)
		eng, err := engine.NewEngine(settings.DataDir)
		if err != nil {
			return nil, nil, err
		}
		return eng, eng, nil
	default:
		return nil, nil, errors.NewValidationError("backend.kind", "unknown backend '"+settings.Kind+"'")
	}
}
