package commands

import (
	"context"
	"log"
	"net/url"
	"strconv"

	"pulsarbot/core"
	"pulsarbot/models"
)

// UserCreateCommand registers a new user with the backend. Administrators only.
type UserCreateCommand struct{}

func NewUserCreateCommand() *UserCreateCommand {
	return &UserCreateCommand{}
}

func (c *UserCreateCommand) Descriptor() models.CommandDescriptor {
	return models.CommandDescriptor{
		Name:        "usercreate",
		Description: "Creates a new user.",
		Options: []models.OptionSpec{
			{Kind: models.OptionKindUserReference, Name: "user", Description: "The Discord User", Required: true},
			{Kind: models.OptionKindString, Name: "steam-id", Description: "The user's SteamID64", Required: true},
			{Kind: models.OptionKindString, Name: "gmodstore-id", Description: "The user's GmodstoreID", Required: true},
		},
		AdminOnly: true,
	}
}

func (c *UserCreateCommand) Execute(ctx context.Context, rt *Runtime, interaction *models.Interaction) error {
	discordUser, err := userArg(interaction.Options, 0, "user")
	if err != nil {
		return err
	}

	rawSteamID, err := stringArg(interaction.Options, 1, "steam id")
	if err != nil {
		return err
	}

	gmodstoreID, err := stringArg(interaction.Options, 2, "gmodstore id")
	if err != nil {
		return err
	}

	steamID, err := strconv.ParseUint(rawSteamID, 10, 64)
	if err != nil {
		return core.Wrap(err, core.KindTypeMismatch, "failed to extract steam id from value")
	}

	discordID, err := strconv.ParseUint(discordUser, 10, 64)
	if err != nil {
		return core.Wrap(err, core.KindTypeMismatch, "failed to extract discord id from value")
	}

	query := url.Values{}
	query.Set("steam_id", strconv.FormatUint(steamID, 10))
	query.Set("gmodstore_id", gmodstoreID)
	query.Set("discord_id", strconv.FormatUint(discordID, 10))

	log.Printf("📋 Starting to create user for discord account %d (interaction: %s)", discordID, interaction.ID)

	if err := rt.Backend.Post(ctx, "/user", query); err != nil {
		log.Printf("❌ Error occurred while creating user: %s", core.Report(err))
		return replyEphemeral(ctx, interaction, genericErrorMessage)
	}

	log.Printf("📋 Completed successfully - created user for discord account %d", discordID)
	return replyEphemeral(ctx, interaction, "Successfully created user.")
}
