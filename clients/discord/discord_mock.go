package discord

import (
	"context"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/mock"

	"pulsarbot/models"
)

// MockDiscordClient implements the clients.DiscordClient interface for testing
type MockDiscordClient struct {
	mock.Mock
}

// RegisterCommands mocks pushing command descriptors to Discord
func (m *MockDiscordClient) RegisterCommands(
	ctx context.Context,
	guildIDs []string,
	descriptors []models.CommandDescriptor,
) error {
	args := m.Called(ctx, guildIDs, descriptors)
	return args.Error(0)
}

// RespondToInteraction mocks sending an interaction response
func (m *MockDiscordClient) RespondToInteraction(
	ctx context.Context,
	interaction *discordgo.Interaction,
	reply models.Reply,
) error {
	args := m.Called(ctx, interaction, reply)
	return args.Error(0)
}
