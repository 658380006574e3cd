package clients

import (
	"context"
	"net/url"

	"github.com/bwmarrin/discordgo"

	"pulsarbot/models"
)

// BackendClient defines the interface for the user-management REST API.
// Decoding response bodies is left to the caller.
type BackendClient interface {
	Get(ctx context.Context, path string) ([]byte, error)
	Post(ctx context.Context, path string, query url.Values) error
}

// DiscordClient defines the interface for Discord platform operations
type DiscordClient interface {
	// RegisterCommands overwrites the application's commands in each guild,
	// or globally when guildIDs is empty
	RegisterCommands(ctx context.Context, guildIDs []string, descriptors []models.CommandDescriptor) error
	RespondToInteraction(ctx context.Context, interaction *discordgo.Interaction, reply models.Reply) error
}
