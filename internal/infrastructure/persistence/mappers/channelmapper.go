package mappers

import (
	"fmt"

	"storepay/internal/domain/channel"
	"storepay/internal/infrastructure/persistence/models"
)

func ChannelToDomain(model *models.ChannelModel) *channel.Channel {
	return channel.ReconstructChannel(
		model.ID,
		model.Token,
		model.Code,
		model.Currency,
		model.CreatedAt,
	)
}

func PaymentMethodToDomain(model *models.PaymentMethodModel) *channel.PaymentMethod {
	args := make(map[string]string, len(model.Args))
	for k, v := range model.Args {
		args[k] = fmt.Sprintf("%v", v)
	}

	return channel.ReconstructPaymentMethod(
		model.ID,
		model.ChannelID,
		model.Code,
		model.HandlerCode,
		args,
		model.Enabled,
	)
}

func PaymentMethodToModel(m *channel.PaymentMethod) *models.PaymentMethodModel {
	args := make(models.JSONB)
	for k, v := range m.RawArgs() {
		args[k] = v
	}

	return &models.PaymentMethodModel{
		ID:          m.ID(),
		ChannelID:   m.ChannelID(),
		HandlerCode: m.HandlerCode(),
		Code:        m.Code(),
		Args:        args,
		Enabled:     m.Enabled(),
	}
}
