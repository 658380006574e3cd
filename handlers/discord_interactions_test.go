package handlers

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"pulsarbot/clients/backend"
	"pulsarbot/clients/discord"
	"pulsarbot/commands"
	"pulsarbot/middleware"
	"pulsarbot/models"
)

func newTestInteractionsHandler(
	t *testing.T,
	mockDiscord *discord.MockDiscordClient,
	mockBackend *backend.MockBackendClient,
) *DiscordInteractionsHandler {
	t.Helper()
	session, err := discordgo.New("Bot test")
	require.NoError(t, err)

	dispatcher := commands.NewDispatcher(
		commands.NewRegistry(commands.LoadCommands()),
		&commands.Runtime{Backend: mockBackend},
	)
	alertMiddleware := middleware.NewErrorAlertMiddleware(middleware.SlackAlertConfig{AppName: "pulsarbot"})
	return NewDiscordInteractionsHandler(session, mockDiscord, dispatcher, alertMiddleware, 2)
}

func commandInteraction(name string, options ...*discordgo.ApplicationCommandInteractionDataOption) *discordgo.InteractionCreate {
	return &discordgo.InteractionCreate{
		Interaction: &discordgo.Interaction{
			ID:      "1234",
			Type:    discordgo.InteractionApplicationCommand,
			GuildID: "937373534651559936",
			Member:  &discordgo.Member{User: &discordgo.User{ID: "42"}},
			Data: discordgo.ApplicationCommandInteractionData{
				Name:    name,
				Options: options,
			},
		},
	}
}

func TestNewDiscordInteractionsHandler_SetsGuildIntent(t *testing.T) {
	handler := newTestInteractionsHandler(t, &discord.MockDiscordClient{}, &backend.MockBackendClient{})
	defer handler.workerPool.StopWait()

	assert.Equal(t, discordgo.IntentsGuilds, handler.discordSDKClient.Identify.Intents)
}

func TestDiscordInteractionsHandler_VerifyCommandReplies(t *testing.T) {
	mockDiscord := &discord.MockDiscordClient{}
	handler := newTestInteractionsHandler(t, mockDiscord, &backend.MockBackendClient{})
	event := commandInteraction("verify")

	mockDiscord.On("RespondToInteraction", mock.Anything, event.Interaction, mock.MatchedBy(func(reply models.Reply) bool {
		return strings.Contains(reply.Content, "https://verify.lythium.dev/") && !reply.Ephemeral
	})).Return(nil).Once()

	handler.handleInteractionCreatedEvent(nil, event)
	handler.workerPool.StopWait()

	mockDiscord.AssertExpectations(t)
}

func TestDiscordInteractionsHandler_UserLookupEndToEnd(t *testing.T) {
	mockDiscord := &discord.MockDiscordClient{}
	mockBackend := &backend.MockBackendClient{}
	handler := newTestInteractionsHandler(t, mockDiscord, mockBackend)

	event := commandInteraction("user", &discordgo.ApplicationCommandInteractionDataOption{
		Name: "steam-id",
		Type: discordgo.ApplicationCommandOptionSubCommand,
		Options: []*discordgo.ApplicationCommandInteractionDataOption{
			{Name: "id", Type: discordgo.ApplicationCommandOptionString, Value: "76500000000000000"},
		},
	})

	mockBackend.On("Get", mock.Anything, "/user/76500000000000000/steam").
		Return([]byte(`{"id":"p1","steamId":76500000000000000,"gmodstoreId":"g1","discordId":42}`), nil)
	mockDiscord.On("RespondToInteraction", mock.Anything, event.Interaction, mock.MatchedBy(func(reply models.Reply) bool {
		return strings.Contains(reply.Content, "- Pulsar ID: p1") &&
			strings.Contains(reply.Content, "https://discord.com/users/42")
	})).Return(nil).Once()

	handler.handleInteractionCreatedEvent(nil, event)
	handler.workerPool.StopWait()

	mockBackend.AssertExpectations(t)
	mockDiscord.AssertExpectations(t)
}

func TestDiscordInteractionsHandler_BackendFailureSendsFallback(t *testing.T) {
	mockDiscord := &discord.MockDiscordClient{}
	mockBackend := &backend.MockBackendClient{}
	handler := newTestInteractionsHandler(t, mockDiscord, mockBackend)

	event := commandInteraction("user", &discordgo.ApplicationCommandInteractionDataOption{
		Name: "pulsar-id",
		Type: discordgo.ApplicationCommandOptionSubCommand,
		Options: []*discordgo.ApplicationCommandInteractionDataOption{
			{Name: "id", Type: discordgo.ApplicationCommandOptionString, Value: "p1"},
		},
	})

	mockBackend.On("Get", mock.Anything, "/user/p1").Return(nil, errors.New("connection refused"))
	mockDiscord.On("RespondToInteraction", mock.Anything, event.Interaction, models.Reply{
		Content:   "An error occurred. Please try again later.",
		Ephemeral: true,
	}).Return(nil).Once()

	handler.handleInteractionCreatedEvent(nil, event)
	handler.workerPool.StopWait()

	mockDiscord.AssertExpectations(t)
}

func TestDiscordInteractionsHandler_UnknownCommandIsNotReplied(t *testing.T) {
	mockDiscord := &discord.MockDiscordClient{}
	handler := newTestInteractionsHandler(t, mockDiscord, &backend.MockBackendClient{})

	handler.handleInteractionCreatedEvent(nil, commandInteraction("ban"))
	handler.workerPool.StopWait()

	mockDiscord.AssertNotCalled(t, "RespondToInteraction", mock.Anything, mock.Anything, mock.Anything)
}

func TestDiscordInteractionsHandler_IgnoresNonCommandInteractions(t *testing.T) {
	mockDiscord := &discord.MockDiscordClient{}
	handler := newTestInteractionsHandler(t, mockDiscord, &backend.MockBackendClient{})

	handler.handleInteractionCreatedEvent(nil, &discordgo.InteractionCreate{
		Interaction: &discordgo.Interaction{ID: "1", Type: discordgo.InteractionPing},
	})
	handler.workerPool.StopWait()

	mockDiscord.AssertNotCalled(t, "RespondToInteraction", mock.Anything, mock.Anything, mock.Anything)
}

func TestDiscordInteractionsHandler_UnsupportedOptionTypeIsDropped(t *testing.T) {
	mockDiscord := &discord.MockDiscordClient{}
	handler := newTestInteractionsHandler(t, mockDiscord, &backend.MockBackendClient{})

	handler.handleInteractionCreatedEvent(nil, commandInteraction("verify", &discordgo.ApplicationCommandInteractionDataOption{
		Name:  "flag",
		Type:  discordgo.ApplicationCommandOptionBoolean,
		Value: true,
	}))
	handler.workerPool.StopWait()

	mockDiscord.AssertNotCalled(t, "RespondToInteraction", mock.Anything, mock.Anything, mock.Anything)
}

func TestDiscordInteractionsHandler_MapToInteraction(t *testing.T) {
	handler := newTestInteractionsHandler(t, &discord.MockDiscordClient{}, &backend.MockBackendClient{})
	defer handler.workerPool.StopWait()

	event := commandInteraction("usercreate",
		&discordgo.ApplicationCommandInteractionDataOption{Name: "user", Type: discordgo.ApplicationCommandOptionUser, Value: "99"},
		&discordgo.ApplicationCommandInteractionDataOption{Name: "steam-id", Type: discordgo.ApplicationCommandOptionString, Value: "765"},
		&discordgo.ApplicationCommandInteractionDataOption{Name: "count", Type: discordgo.ApplicationCommandOptionInteger, Value: float64(3)},
	)

	interaction, err := handler.mapToInteraction(event.Interaction)

	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(interaction.ID, "inv_"))
	assert.Equal(t, "usercreate", interaction.CommandName)
	assert.Equal(t, "937373534651559936", interaction.GuildID)
	assert.Equal(t, "42", interaction.UserID)
	assert.Equal(t, []models.OptionValue{
		models.UserOption("user", "99"),
		models.StringOption("steam-id", "765"),
		models.IntegerOption("count", 3),
	}, interaction.Options)
	assert.False(t, interaction.Replied())
}

func TestDiscordInteractionsHandler_MapToInteraction_DirectMessageUser(t *testing.T) {
	handler := newTestInteractionsHandler(t, &discord.MockDiscordClient{}, &backend.MockBackendClient{})
	defer handler.workerPool.StopWait()

	event := commandInteraction("verify")
	event.Member = nil
	event.GuildID = ""
	event.User = &discordgo.User{ID: "7"}

	interaction, err := handler.mapToInteraction(event.Interaction)

	require.NoError(t, err)
	assert.Equal(t, "7", interaction.UserID)
	assert.Empty(t, interaction.GuildID)
	assert.Nil(t, interaction.Options)
}

func TestDiscordInteractionsHandler_PushCommands(t *testing.T) {
	mockDiscord := &discord.MockDiscordClient{}
	handler := newTestInteractionsHandler(t, mockDiscord, &backend.MockBackendClient{})
	defer handler.workerPool.StopWait()

	guilds := []string{"937373534651559936"}
	mockDiscord.On("RegisterCommands", mock.Anything, guilds, mock.MatchedBy(func(descriptors []models.CommandDescriptor) bool {
		return len(descriptors) == 4 && descriptors[0].Name == "usercreate" && descriptors[3].Name == "verify"
	})).Return(nil).Once()

	err := handler.PushCommands(context.Background(), guilds)

	require.NoError(t, err)
	mockDiscord.AssertExpectations(t)
}

func TestDiscordInteractionsHandler_PushCommandsError(t *testing.T) {
	mockDiscord := &discord.MockDiscordClient{}
	handler := newTestInteractionsHandler(t, mockDiscord, &backend.MockBackendClient{})
	defer handler.workerPool.StopWait()

	mockDiscord.On("RegisterCommands", mock.Anything, mock.Anything, mock.Anything).
		Return(errors.New("401 Unauthorized"))

	err := handler.PushCommands(context.Background(), nil)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to push commands: 401 Unauthorized")
}
