package commands

import (
	"context"

	"pulsarbot/models"
)

const verifyMessage = "To gain access to support channels you first have to verify your Discord account.\n" +
	"To do this, please follow these steps (Also found in <#937373534651559966>)\n\n" +
	"- Add Steam as a connection to your Discord account. (Found in settings, You can set it as hidden)\n" +
	"- Head over to https://verify.lythium.dev/\n" +
	"- Login to your Discord account\n" +
	"- Ask for help in the correct support channels or create a ticket with /create"

type VerifyCommand struct{}

func NewVerifyCommand() *VerifyCommand {
	return &VerifyCommand{}
}

func (c *VerifyCommand) Descriptor() models.CommandDescriptor {
	return models.CommandDescriptor{
		Name:        "verify",
		Description: "Get info about verifying!",
	}
}

func (c *VerifyCommand) Execute(ctx context.Context, _ *Runtime, interaction *models.Interaction) error {
	return reply(ctx, interaction, verifyMessage)
}
