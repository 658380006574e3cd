package commands

import (
	"context"
	"fmt"

	"github.com/samber/mo"

	"pulsarbot/core"
	"pulsarbot/models"
	"pulsarbot/utils"
)

// Registry maps command names to commands. It is read-only after construction
// and safe for concurrent use.
type Registry struct {
	commands []Command
	byName   map[string]Command
}

// NewRegistry builds a registry. Command names must be unique.
func NewRegistry(commands []Command) *Registry {
	byName := make(map[string]Command, len(commands))
	for _, command := range commands {
		name := command.Descriptor().Name
		utils.AssertInvariant(name != "", "command name cannot be empty")
		_, exists := byName[name]
		utils.AssertInvariant(!exists, "duplicate command name: "+name)
		byName[name] = command
	}
	return &Registry{commands: commands, byName: byName}
}

// Commands returns the registered commands in registration order
func (r *Registry) Commands() []Command {
	result := make([]Command, len(r.commands))
	copy(result, r.commands)
	return result
}

// Descriptors returns the descriptor of every registered command in registration order
func (r *Registry) Descriptors() []models.CommandDescriptor {
	descriptors := make([]models.CommandDescriptor, 0, len(r.commands))
	for _, command := range r.commands {
		descriptors = append(descriptors, command.Descriptor())
	}
	return descriptors
}

// Lookup finds a command by exact, case-sensitive name
func (r *Registry) Lookup(name string) mo.Option[Command] {
	command, ok := r.byName[name]
	if !ok {
		return mo.None[Command]()
	}
	return mo.Some(command)
}

// Dispatch invokes the command named by the interaction. Transport and decode
// failures escaping the command are re-classified as command execution
// failures; argument errors keep their kind.
func (r *Registry) Dispatch(ctx context.Context, rt *Runtime, interaction *models.Interaction) error {
	maybeCommand := r.Lookup(interaction.CommandName)
	if !maybeCommand.IsPresent() {
		return core.NewError(core.KindUnknownCommand, "no command registered as %q", interaction.CommandName)
	}
	command := maybeCommand.MustGet()

	if err := command.Execute(ctx, rt, interaction); err != nil {
		wrapped := core.Wrap(err, core.KindCommandExecutionFailed, fmt.Sprintf("failed to execute command %s", interaction.CommandName))
		switch wrapped.Kind() {
		case core.KindTransport, core.KindDecode:
			return wrapped.ChangeKind(core.KindCommandExecutionFailed)
		}
		return wrapped
	}
	return nil
}
