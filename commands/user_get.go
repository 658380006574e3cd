package commands

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"strconv"

	"github.com/samber/mo"

	"pulsarbot/core"
	"pulsarbot/models"
)

// userLookupPaths maps each lookup sub-command to its backend path
var userLookupPaths = map[string]string{
	"pulsar-id":    "/user/%s",
	"discord":      "/user/%s/discord",
	"steam-id":     "/user/%s/steam",
	"gmodstore-id": "/user/%s/gmodstore",
}

// UserGetCommand looks a user up by one of their identities
type UserGetCommand struct{}

func NewUserGetCommand() *UserGetCommand {
	return &UserGetCommand{}
}

func (c *UserGetCommand) Descriptor() models.CommandDescriptor {
	lookup := func(name, description string, kind models.OptionKind, idDescription string) models.OptionSpec {
		return models.OptionSpec{
			Kind:        models.OptionKindSubCommand,
			Name:        name,
			Description: description,
			Options: []models.OptionSpec{
				{Kind: kind, Name: "id", Description: idDescription, Required: true},
			},
		}
	}

	return models.CommandDescriptor{
		Name:        "user",
		Description: "Gets a user",
		Options: []models.OptionSpec{
			lookup("pulsar-id", "Get the user from their PulsarID", models.OptionKindString, "The users Pulsar ID."),
			lookup("discord", "Get the user from their Discord Account", models.OptionKindUserReference, "The users Discord account."),
			lookup("steam-id", "Get the user from their SteamID", models.OptionKindString, "The users SteamID64."),
			lookup("gmodstore-id", "Get the user from their Gmodstore ID", models.OptionKindString, "The users Gmodstore ID."),
		},
	}
}

func (c *UserGetCommand) Execute(ctx context.Context, rt *Runtime, interaction *models.Interaction) error {
	subCommand, err := subCommandArg(interaction.Options, "sub command")
	if err != nil {
		return err
	}

	pathFormat, ok := userLookupPaths[subCommand.Name]
	if !ok {
		return core.NewError(core.KindTypeMismatch, "unsupported sub command %q", subCommand.Name).
			Attach("failed to get sub command arg data")
	}

	id, err := lookupID(subCommand)
	if err != nil {
		return err
	}

	path := fmt.Sprintf(pathFormat, url.PathEscape(id))
	log.Printf("📋 Starting to look up user via %s (interaction: %s)", path, interaction.ID)

	resp, err := fetchPayload(ctx, rt.Backend, path, "user")
	if err != nil {
		return err
	}

	user, err := models.DecodeUser(resp.body)
	if err != nil || (resp.statusErr != nil && !user.Error.IsPresent()) {
		return resp.failure(err, "user")
	}

	if user.Error.IsPresent() {
		return reply(ctx, interaction, fmt.Sprintf("An error occurred while trying to get the user: %s", user.Error.MustGet()))
	}

	log.Printf("📋 Completed successfully - found user %s", user.ID.OrElse(""))
	return reply(ctx, interaction, RenderUser(user))
}

func lookupID(subCommand models.OptionValue) (string, error) {
	if subCommand.Name == "discord" {
		return userArg(subCommand.Options, 0, "target user")
	}
	return stringArg(subCommand.Options, 0, subCommand.Name)
}

// RenderUser formats the four identities of a user as a markdown list
func RenderUser(user models.User) string {
	steamID := formatOptionalID(user.SteamID)
	gmodstoreID := user.GmodstoreID.OrElse("")
	discordID := formatOptionalID(user.DiscordID)

	return fmt.Sprintf(
		"- Pulsar ID: %s\n"+
			"- Steam ID: [%s](<https://steamcommunity.com/id/%s/>)\n"+
			"- Gmodstore ID: [%s](<https://www.gmodstore.com/users/%s>)\n"+
			"- Discord ID: [%s](<https://discord.com/users/%s>)",
		user.ID.OrElse(""),
		steamID, steamID,
		gmodstoreID, gmodstoreID,
		discordID, discordID,
	)
}

func formatOptionalID(id mo.Option[uint64]) string {
	if !id.IsPresent() {
		return ""
	}
	return strconv.FormatUint(id.MustGet(), 10)
}
