package discord

import (
	"context"
	"fmt"
	"log"

	"github.com/bwmarrin/discordgo"

	"pulsarbot/clients"
	"pulsarbot/models"
)

// sdkSession is the subset of *discordgo.Session used by DiscordClient
type sdkSession interface {
	User(userID string, options ...discordgo.RequestOption) (*discordgo.User, error)
	ApplicationCommandBulkOverwrite(
		appID string,
		guildID string,
		commands []*discordgo.ApplicationCommand,
		options ...discordgo.RequestOption,
	) ([]*discordgo.ApplicationCommand, error)
	InteractionRespond(
		interaction *discordgo.Interaction,
		resp *discordgo.InteractionResponse,
		options ...discordgo.RequestOption,
	) error
}

// DiscordClient implements the clients.DiscordClient interface
type DiscordClient struct {
	session sdkSession
}

// NewDiscordClient creates a new Discord client backed by a discordgo session
func NewDiscordClient(session *discordgo.Session) clients.DiscordClient {
	return &DiscordClient{session: session}
}

// RegisterCommands bulk-overwrites the application commands for each guild
func (c *DiscordClient) RegisterCommands(
	ctx context.Context,
	guildIDs []string,
	descriptors []models.CommandDescriptor,
) error {
	log.Printf("📋 Starting to register %d commands", len(descriptors))

	app, err := c.session.User("@me", discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("failed to fetch application user: %w", err)
	}

	commands := make([]*discordgo.ApplicationCommand, 0, len(descriptors))
	for _, descriptor := range descriptors {
		commands = append(commands, ToApplicationCommand(descriptor))
	}

	// an empty guild ID registers global commands
	if len(guildIDs) == 0 {
		guildIDs = []string{""}
	}

	for _, guildID := range guildIDs {
		created, err := c.session.ApplicationCommandBulkOverwrite(app.ID, guildID, commands, discordgo.WithContext(ctx))
		if err != nil {
			return fmt.Errorf("failed to register commands for guild %q: %w", guildID, err)
		}
		log.Printf("✅ Registered %d commands for guild %q", len(created), guildID)
	}

	log.Printf("📋 Completed successfully - registered commands in %d guilds", len(guildIDs))
	return nil
}

// RespondToInteraction sends the initial response message for an interaction
func (c *DiscordClient) RespondToInteraction(
	ctx context.Context,
	interaction *discordgo.Interaction,
	reply models.Reply,
) error {
	data := &discordgo.InteractionResponseData{
		Content: reply.Content,
	}
	if reply.Ephemeral {
		data.Flags = discordgo.MessageFlagsEphemeral
	}

	err := c.session.InteractionRespond(interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: data,
	}, discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("failed to respond to interaction %s: %w", interaction.ID, err)
	}
	return nil
}

// ToApplicationCommand maps a command descriptor to its Discord registration payload
func ToApplicationCommand(descriptor models.CommandDescriptor) *discordgo.ApplicationCommand {
	dmPermission := descriptor.DMPermission
	command := &discordgo.ApplicationCommand{
		Name:         descriptor.Name,
		Description:  descriptor.Description,
		Options:      toApplicationCommandOptions(descriptor.Options),
		DMPermission: &dmPermission,
	}
	if descriptor.AdminOnly {
		permissions := int64(discordgo.PermissionAdministrator)
		command.DefaultMemberPermissions = &permissions
	}
	return command
}

func toApplicationCommandOptions(specs []models.OptionSpec) []*discordgo.ApplicationCommandOption {
	if len(specs) == 0 {
		return nil
	}
	options := make([]*discordgo.ApplicationCommandOption, 0, len(specs))
	for _, spec := range specs {
		options = append(options, &discordgo.ApplicationCommandOption{
			Type:        ToOptionType(spec.Kind),
			Name:        spec.Name,
			Description: spec.Description,
			Required:    spec.Required,
			Options:     toApplicationCommandOptions(spec.Options),
		})
	}
	return options
}

// ToOptionType maps an option kind to the Discord option type
func ToOptionType(kind models.OptionKind) discordgo.ApplicationCommandOptionType {
	switch kind {
	case models.OptionKindInteger:
		return discordgo.ApplicationCommandOptionInteger
	case models.OptionKindUserReference:
		return discordgo.ApplicationCommandOptionUser
	case models.OptionKindSubCommand:
		return discordgo.ApplicationCommandOptionSubCommand
	default:
		return discordgo.ApplicationCommandOptionString
	}
}

// FromOptionType maps a Discord option type back to an option kind.
// The second value is false for types this bot does not declare.
func FromOptionType(optionType discordgo.ApplicationCommandOptionType) (models.OptionKind, bool) {
	switch optionType {
	case discordgo.ApplicationCommandOptionString:
		return models.OptionKindString, true
	case discordgo.ApplicationCommandOptionInteger:
		return models.OptionKindInteger, true
	case discordgo.ApplicationCommandOptionUser:
		return models.OptionKindUserReference, true
	case discordgo.ApplicationCommandOptionSubCommand:
		return models.OptionKindSubCommand, true
	default:
		return "", false
	}
}
