package commands

import (
	"context"

	"pulsarbot/clients"
	"pulsarbot/models"
)

// Runtime holds the process-wide dependencies handed to every command.
// It is built once at startup and never mutated afterwards.
type Runtime struct {
	Backend clients.BackendClient
}

// Command is one slash command: its registration metadata and execution logic
type Command interface {
	// Descriptor returns the command's static metadata. It has no side effects.
	Descriptor() models.CommandDescriptor
	// Execute handles one interaction. On success exactly one reply has been sent.
	Execute(ctx context.Context, rt *Runtime, interaction *models.Interaction) error
}

// LoadCommands returns every command the bot serves, in registration order
func LoadCommands() []Command {
	return []Command{
		NewUserCreateCommand(),
		NewUserGetCommand(),
		NewUserAddonsCommand(),
		NewVerifyCommand(),
	}
}
