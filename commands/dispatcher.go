package commands

import (
	"context"
	"log"

	"pulsarbot/core"
	"pulsarbot/models"
)

const genericErrorMessage = "An error occurred. Please try again later."

// Dispatcher is the terminal consumer of command errors: it logs the full
// error trail and makes sure a known command's interaction gets a reply
type Dispatcher struct {
	registry *Registry
	runtime  *Runtime
}

func NewDispatcher(registry *Registry, runtime *Runtime) *Dispatcher {
	return &Dispatcher{registry: registry, runtime: runtime}
}

func (d *Dispatcher) Registry() *Registry {
	return d.registry
}

// Handle runs one interaction to completion. The returned error has already
// been logged and is only meant for alerting.
func (d *Dispatcher) Handle(ctx context.Context, interaction *models.Interaction) error {
	log.Printf("📋 Starting to dispatch command %s (interaction: %s)", interaction.CommandName, interaction.ID)

	err := d.dispatch(ctx, interaction)
	if err == nil {
		log.Printf("📋 Completed successfully - dispatched command %s (interaction: %s)", interaction.CommandName, interaction.ID)
		return nil
	}

	log.Printf("❌ Command %s failed (interaction: %s): %s", interaction.CommandName, interaction.ID, core.Report(err))

	if !d.registry.Lookup(interaction.CommandName).IsPresent() {
		return err
	}

	if !interaction.Replied() {
		if replyErr := interaction.ReplyEphemeral(ctx, genericErrorMessage); replyErr != nil {
			log.Printf("❌ Failed to send fallback reply (interaction: %s): %v", interaction.ID, replyErr)
		}
	}
	return err
}

// dispatch turns a panicking command into an ordinary failure so the
// fallback reply still goes out
func (d *Dispatcher) dispatch(ctx context.Context, interaction *models.Interaction) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = core.NewError(core.KindCommandExecutionFailed, "panic: %v", r).
				Attachf("failed to execute command %s", interaction.CommandName)
		}
	}()
	return d.registry.Dispatch(ctx, d.runtime, interaction)
}
