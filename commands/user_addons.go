package commands

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"strings"

	"pulsarbot/core"
	"pulsarbot/models"
)

const noDataProvidedMessage = "No data provided."

// UserAddonsCommand lists the addons a user owns
type UserAddonsCommand struct{}

func NewUserAddonsCommand() *UserAddonsCommand {
	return &UserAddonsCommand{}
}

func (c *UserAddonsCommand) Descriptor() models.CommandDescriptor {
	return models.CommandDescriptor{
		Name:        "addons",
		Description: "Gets a user's addons",
		Options: []models.OptionSpec{
			{Kind: models.OptionKindString, Name: "id", Description: "The user's PulsarID", Required: false},
			{Kind: models.OptionKindUserReference, Name: "discord_user", Description: "The users Discord account.", Required: false},
		},
	}
}

func (c *UserAddonsCommand) Execute(ctx context.Context, rt *Runtime, interaction *models.Interaction) error {
	// Discord omits optional options the user left out, so the first
	// supplied option decides which identity was given
	if len(interaction.Options) == 0 {
		return reply(ctx, interaction, noDataProvidedMessage)
	}

	var pulsarID string
	switch interaction.Options[0].Name {
	case "id":
		id, err := stringArg(interaction.Options, 0, "pulsar id")
		if err != nil {
			return err
		}
		pulsarID = id
	case "discord_user":
		discordID, err := userArg(interaction.Options, 0, "discord user")
		if err != nil {
			return err
		}

		resolved, errMessage, err := c.resolvePulsarID(ctx, rt, discordID)
		if err != nil {
			return err
		}
		if errMessage != "" {
			return reply(ctx, interaction, fmt.Sprintf("An error occurred while trying to get the user: %s", errMessage))
		}
		pulsarID = resolved
	}

	if pulsarID == "" {
		return reply(ctx, interaction, noDataProvidedMessage)
	}

	log.Printf("📋 Starting to list addons for user %s (interaction: %s)", pulsarID, interaction.ID)

	resp, err := fetchPayload(ctx, rt.Backend, fmt.Sprintf("/user/%s/addons", url.PathEscape(pulsarID)), "user addons")
	if err != nil {
		return err
	}

	addons, err := models.DecodeAddonsResponse(resp.body)
	if err != nil || (resp.statusErr != nil && addons.Kind != models.AddonsResponseError) {
		return resp.failure(err, "user addons")
	}

	if addons.Kind == models.AddonsResponseError {
		return reply(ctx, interaction, fmt.Sprintf("An error occurred while trying to get the user's addons: %s", addons.Error))
	}

	log.Printf("📋 Completed successfully - listed %d addons for user %s", len(addons.Addons), pulsarID)
	return reply(ctx, interaction, RenderAddons(addons.Addons))
}

// resolvePulsarID translates a Discord account into a Pulsar ID. A
// backend-reported error is returned as a message for the user.
func (c *UserAddonsCommand) resolvePulsarID(
	ctx context.Context,
	rt *Runtime,
	discordID string,
) (string, string, error) {
	resp, err := fetchPayload(ctx, rt.Backend, fmt.Sprintf("/user/%s/discord", url.PathEscape(discordID)), "discord user")
	if err != nil {
		return "", "", err
	}

	user, err := models.DecodeUser(resp.body)
	if err != nil || (resp.statusErr != nil && !user.Error.IsPresent()) {
		return "", "", resp.failure(err, "discord user")
	}
	if user.Error.IsPresent() {
		return "", user.Error.MustGet(), nil
	}
	if !user.ID.IsPresent() {
		return "", "", core.NewError(core.KindDecode, "user for discord account %s has no id", discordID).
			Attach("failed to resolve pulsar id")
	}
	return user.ID.MustGet(), "", nil
}

// RenderAddons formats one markdown link per addon. Missing fields render as empty strings.
func RenderAddons(addons []models.Addon) string {
	var b strings.Builder
	b.WriteString("User's owned addons:\n")
	for _, addon := range addons {
		fmt.Fprintf(&b, "[%s](<https://www.gmodstore.com/market/view/%s>)\n", addon.Name.OrElse(""), addon.ID.OrElse(""))
	}
	return b.String()
}
