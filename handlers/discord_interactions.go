package handlers

import (
	"context"
	"fmt"
	"log"

	"github.com/bwmarrin/discordgo"
	"github.com/gammazero/workerpool"

	"pulsarbot/clients"
	"pulsarbot/clients/discord"
	"pulsarbot/commands"
	"pulsarbot/core"
	"pulsarbot/middleware"
	"pulsarbot/models"
)

type DiscordInteractionsHandler struct {
	discordSDKClient *discordgo.Session
	discordClient    clients.DiscordClient
	dispatcher       *commands.Dispatcher
	handle           func(context.Context, *models.Interaction)
	workerPool       *workerpool.WorkerPool
}

func NewDiscordInteractionsHandler(
	session *discordgo.Session,
	discordClient clients.DiscordClient,
	dispatcher *commands.Dispatcher,
	alertMiddleware *middleware.ErrorAlertMiddleware,
	workers int,
) *DiscordInteractionsHandler {
	if workers <= 0 {
		workers = 1
	}

	handler := &DiscordInteractionsHandler{
		discordSDKClient: session,
		discordClient:    discordClient,
		dispatcher:       dispatcher,
		handle:           alertMiddleware.WrapInteractionHandler(dispatcher.Handle),
		workerPool:       workerpool.New(workers),
	}

	session.AddHandler(handler.handleInteractionCreatedEvent)

	// Slash commands only need the guilds intent
	session.Identify.Intents = discordgo.IntentsGuilds

	return handler
}

// StartBot opens the Discord connection and starts listening for interactions
func (h *DiscordInteractionsHandler) StartBot() error {
	if err := h.discordSDKClient.Open(); err != nil {
		return fmt.Errorf("failed to open Discord session: %w", err)
	}

	log.Printf("🤖 Discord bot is now running and listening for interactions")
	return nil
}

// StopBot waits for in-flight interactions, then closes the Discord connection
func (h *DiscordInteractionsHandler) StopBot() {
	h.workerPool.StopWait()
	if err := h.discordSDKClient.Close(); err != nil {
		log.Printf("⚠️ Failed to close Discord session cleanly: %v", err)
	}
}

// PushCommands registers every command descriptor with Discord
func (h *DiscordInteractionsHandler) PushCommands(ctx context.Context, guildIDs []string) error {
	descriptors := h.dispatcher.Registry().Descriptors()
	if err := h.discordClient.RegisterCommands(ctx, guildIDs, descriptors); err != nil {
		return fmt.Errorf("failed to push commands: %w", err)
	}
	return nil
}

func (h *DiscordInteractionsHandler) handleInteractionCreatedEvent(_ *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Interaction == nil || i.Type != discordgo.InteractionApplicationCommand {
		return
	}

	interaction, err := h.mapToInteraction(i.Interaction)
	if err != nil {
		log.Printf("❌ Failed to map Discord interaction %s: %v", i.ID, err)
		return
	}

	log.Printf("📨 Interaction %s received for command %s in guild %s", interaction.ID, interaction.CommandName, interaction.GuildID)
	h.workerPool.Submit(func() {
		h.handle(context.Background(), interaction)
	})
}

// mapToInteraction maps a Discord SDK interaction to our domain model
func (h *DiscordInteractionsHandler) mapToInteraction(i *discordgo.Interaction) (*models.Interaction, error) {
	data := i.ApplicationCommandData()

	options, err := mapOptionValues(data.Options)
	if err != nil {
		return nil, fmt.Errorf("failed to map options of command %s: %w", data.Name, err)
	}

	userID := ""
	if i.Member != nil && i.Member.User != nil {
		userID = i.Member.User.ID
	} else if i.User != nil {
		userID = i.User.ID
	}

	return models.NewGuildInteraction(
		core.NewID("inv"),
		data.Name,
		i.GuildID,
		userID,
		options,
		&discordResponder{client: h.discordClient, interaction: i},
	), nil
}

func mapOptionValues(options []*discordgo.ApplicationCommandInteractionDataOption) ([]models.OptionValue, error) {
	if len(options) == 0 {
		return nil, nil
	}

	values := make([]models.OptionValue, 0, len(options))
	for _, option := range options {
		kind, ok := discord.FromOptionType(option.Type)
		if !ok {
			return nil, fmt.Errorf("unsupported option type %s for option %s", option.Type, option.Name)
		}

		switch kind {
		case models.OptionKindString:
			values = append(values, models.StringOption(option.Name, option.StringValue()))
		case models.OptionKindInteger:
			values = append(values, models.IntegerOption(option.Name, option.IntValue()))
		case models.OptionKindUserReference:
			values = append(values, models.UserOption(option.Name, option.UserValue(nil).ID))
		case models.OptionKindSubCommand:
			nested, err := mapOptionValues(option.Options)
			if err != nil {
				return nil, err
			}
			values = append(values, models.SubCommandOption(option.Name, nested...))
		}
	}
	return values, nil
}

// discordResponder delivers replies for a single Discord interaction
type discordResponder struct {
	client      clients.DiscordClient
	interaction *discordgo.Interaction
}

func (r *discordResponder) Respond(ctx context.Context, reply models.Reply) error {
	return r.client.RespondToInteraction(ctx, r.interaction, reply)
}
