package discord

import (
	"context"
	"errors"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"pulsarbot/models"
)

type mockSession struct {
	mock.Mock
}

func (m *mockSession) User(userID string, _ ...discordgo.RequestOption) (*discordgo.User, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*discordgo.User), args.Error(1)
}

func (m *mockSession) ApplicationCommandBulkOverwrite(
	appID string,
	guildID string,
	commands []*discordgo.ApplicationCommand,
	_ ...discordgo.RequestOption,
) ([]*discordgo.ApplicationCommand, error) {
	args := m.Called(appID, guildID, commands)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*discordgo.ApplicationCommand), args.Error(1)
}

func (m *mockSession) InteractionRespond(
	interaction *discordgo.Interaction,
	resp *discordgo.InteractionResponse,
	_ ...discordgo.RequestOption,
) error {
	args := m.Called(interaction, resp)
	return args.Error(0)
}

var testDescriptors = []models.CommandDescriptor{
	{
		Name:        "user",
		Description: "Gets a user",
		Options: []models.OptionSpec{
			{
				Kind:        models.OptionKindSubCommand,
				Name:        "discord",
				Description: "Get the user from their Discord Account",
				Options: []models.OptionSpec{
					{Kind: models.OptionKindUserReference, Name: "id", Description: "The users Discord account.", Required: true},
				},
			},
		},
	},
	{
		Name:        "usercreate",
		Description: "Creates a new user.",
		AdminOnly:   true,
	},
}

func TestDiscordClient_RegisterCommands_PerGuild(t *testing.T) {
	session := &mockSession{}
	client := &DiscordClient{session: session}

	session.On("User", "@me").Return(&discordgo.User{ID: "app123"}, nil)
	session.On("ApplicationCommandBulkOverwrite", "app123", "111", mock.Anything).
		Return([]*discordgo.ApplicationCommand{{}, {}}, nil)
	session.On("ApplicationCommandBulkOverwrite", "app123", "222", mock.Anything).
		Return([]*discordgo.ApplicationCommand{{}, {}}, nil)

	err := client.RegisterCommands(context.Background(), []string{"111", "222"}, testDescriptors)

	require.NoError(t, err)
	session.AssertExpectations(t)

	commands := session.Calls[1].Arguments.Get(2).([]*discordgo.ApplicationCommand)
	require.Len(t, commands, 2)
	assert.Equal(t, "user", commands[0].Name)
	assert.Equal(t, "usercreate", commands[1].Name)
}

func TestDiscordClient_RegisterCommands_Global(t *testing.T) {
	session := &mockSession{}
	client := &DiscordClient{session: session}

	session.On("User", "@me").Return(&discordgo.User{ID: "app123"}, nil)
	session.On("ApplicationCommandBulkOverwrite", "app123", "", mock.Anything).
		Return([]*discordgo.ApplicationCommand{}, nil)

	err := client.RegisterCommands(context.Background(), nil, testDescriptors)

	require.NoError(t, err)
	session.AssertExpectations(t)
}

func TestDiscordClient_RegisterCommands_OverwriteFails(t *testing.T) {
	session := &mockSession{}
	client := &DiscordClient{session: session}

	session.On("User", "@me").Return(&discordgo.User{ID: "app123"}, nil)
	session.On("ApplicationCommandBulkOverwrite", "app123", "111", mock.Anything).
		Return(nil, errors.New("HTTP 403 Forbidden"))

	err := client.RegisterCommands(context.Background(), []string{"111", "222"}, testDescriptors)

	require.Error(t, err)
	assert.Contains(t, err.Error(), `failed to register commands for guild "111"`)
	session.AssertNotCalled(t, "ApplicationCommandBulkOverwrite", "app123", "222", mock.Anything)
}

func TestDiscordClient_RegisterCommands_UserLookupFails(t *testing.T) {
	session := &mockSession{}
	client := &DiscordClient{session: session}

	session.On("User", "@me").Return(nil, errors.New("HTTP 401 Unauthorized"))

	err := client.RegisterCommands(context.Background(), []string{"111"}, testDescriptors)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to fetch application user")
}

func TestDiscordClient_RespondToInteraction_Ephemeral(t *testing.T) {
	session := &mockSession{}
	client := &DiscordClient{session: session}
	interaction := &discordgo.Interaction{ID: "i1"}

	session.On("InteractionRespond", interaction, mock.MatchedBy(func(resp *discordgo.InteractionResponse) bool {
		return resp.Type == discordgo.InteractionResponseChannelMessageWithSource &&
			resp.Data.Content == "Successfully created user." &&
			resp.Data.Flags == discordgo.MessageFlagsEphemeral
	})).Return(nil)

	err := client.RespondToInteraction(context.Background(), interaction, models.Reply{
		Content:   "Successfully created user.",
		Ephemeral: true,
	})

	require.NoError(t, err)
	session.AssertExpectations(t)
}

func TestDiscordClient_RespondToInteraction_Error(t *testing.T) {
	session := &mockSession{}
	client := &DiscordClient{session: session}
	interaction := &discordgo.Interaction{ID: "i1"}

	session.On("InteractionRespond", interaction, mock.Anything).Return(errors.New("Unknown interaction"))

	err := client.RespondToInteraction(context.Background(), interaction, models.Reply{Content: "hi"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to respond to interaction i1")
}

func TestToApplicationCommand(t *testing.T) {
	command := ToApplicationCommand(testDescriptors[0])

	assert.Equal(t, "user", command.Name)
	assert.Equal(t, "Gets a user", command.Description)
	require.NotNil(t, command.DMPermission)
	assert.False(t, *command.DMPermission)
	assert.Nil(t, command.DefaultMemberPermissions)

	require.Len(t, command.Options, 1)
	sub := command.Options[0]
	assert.Equal(t, discordgo.ApplicationCommandOptionSubCommand, sub.Type)
	assert.Equal(t, "discord", sub.Name)
	require.Len(t, sub.Options, 1)
	assert.Equal(t, discordgo.ApplicationCommandOptionUser, sub.Options[0].Type)
	assert.True(t, sub.Options[0].Required)
}

func TestToApplicationCommand_AdminOnly(t *testing.T) {
	command := ToApplicationCommand(testDescriptors[1])

	require.NotNil(t, command.DefaultMemberPermissions)
	assert.Equal(t, int64(discordgo.PermissionAdministrator), *command.DefaultMemberPermissions)
	assert.Nil(t, command.Options)
}

func TestOptionTypeRoundTrip(t *testing.T) {
	for _, kind := range []models.OptionKind{
		models.OptionKindString,
		models.OptionKindInteger,
		models.OptionKindUserReference,
		models.OptionKindSubCommand,
	} {
		got, ok := FromOptionType(ToOptionType(kind))
		assert.True(t, ok)
		assert.Equal(t, kind, got)
	}

	_, ok := FromOptionType(discordgo.ApplicationCommandOptionBoolean)
	assert.False(t, ok)
}
