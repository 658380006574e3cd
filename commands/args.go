package commands

import (
	"context"
	"log"
	"strings"

	"pulsarbot/clients"
	"pulsarbot/core"
	"pulsarbot/models"
)

// Options are matched by position in the descriptor's declared order, not by name.

func optionAt(options []models.OptionValue, index int, role string) (models.OptionValue, error) {
	if index < 0 || index >= len(options) {
		return models.OptionValue{}, core.NewError(core.KindMissingArgument, "option %d not supplied", index).
			Attachf("failed to get command arg data for %s", role)
	}
	return options[index], nil
}

func typedOptionAt(
	options []models.OptionValue,
	index int,
	role string,
	kind models.OptionKind,
) (models.OptionValue, error) {
	option, err := optionAt(options, index, role)
	if err != nil {
		return models.OptionValue{}, err
	}
	if option.Kind != kind {
		return models.OptionValue{}, core.NewError(core.KindTypeMismatch, "expected %s option, got %s", kind, option.Kind).
			Attachf("failed to get command arg data for %s", role)
	}
	return option, nil
}

func stringArg(options []models.OptionValue, index int, role string) (string, error) {
	option, err := typedOptionAt(options, index, role, models.OptionKindString)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(option.String), nil
}

// userArg returns the snowflake of a referenced user
func userArg(options []models.OptionValue, index int, role string) (string, error) {
	option, err := typedOptionAt(options, index, role, models.OptionKindUserReference)
	if err != nil {
		return "", err
	}
	return option.UserID, nil
}

func subCommandArg(options []models.OptionValue, role string) (models.OptionValue, error) {
	return typedOptionAt(options, 0, role, models.OptionKindSubCommand)
}

func reply(ctx context.Context, interaction *models.Interaction, content string) error {
	if err := interaction.Reply(ctx, content); err != nil {
		return core.Wrap(err, core.KindCommandExecutionFailed, "failed to send reply").
			ChangeKind(core.KindCommandExecutionFailed)
	}
	return nil
}

func replyEphemeral(ctx context.Context, interaction *models.Interaction, content string) error {
	if err := interaction.ReplyEphemeral(ctx, content); err != nil {
		return core.Wrap(err, core.KindCommandExecutionFailed, "failed to send reply").
			ChangeKind(core.KindCommandExecutionFailed)
	}
	return nil
}

// payload is a backend response body. statusErr is set when the body came
// from a non-2xx response; such a body is only usable if it is error-shaped.
type payload struct {
	body      []byte
	statusErr error
}

func fetchPayload(ctx context.Context, backend clients.BackendClient, path, role string) (payload, error) {
	body, err := backend.Get(ctx, path)
	if err == nil {
		return payload{body: body}, nil
	}
	if errBody, ok := clients.ErrorBody(err); ok {
		log.Printf("⚠️ Backend returned an error status for %s, inspecting payload", path)
		return payload{body: errBody, statusErr: err}, nil
	}
	return payload{}, core.Wrap(err, core.KindTransport, "failed to get "+role)
}

// failure explains why the payload could not be used: the status error when
// there was one, the decode error otherwise
func (p payload) failure(decodeErr error, role string) error {
	if p.statusErr != nil {
		return core.Wrap(p.statusErr, core.KindTransport, "failed to get "+role)
	}
	if decodeErr == nil {
		return core.NewError(core.KindDecode, "unexpected %s payload", role)
	}
	return core.Wrap(decodeErr, core.KindDecode, "failed to decode "+role)
}
