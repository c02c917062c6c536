package mappers

import (
	"storepay/internal/domain/order"
	vo "storepay/internal/domain/order/valueobjects"
	"storepay/internal/infrastructure/persistence/models"
)

func OrderToModel(o *order.Order) *models.OrderModel {
	model := &models.OrderModel{
		ID:                 o.ID(),
		Code:               o.Code(),
		SessionToken:       o.SessionToken(),
		State:              o.State().String(),
		TotalMinor:         o.Total().AmountMinor(),
		Currency:           o.Total().Currency(),
		ShippingMethodCode: o.ShippingMethodCode(),
		LineCount:          o.LineCount(),
		Metadata:           models.JSONB(o.Metadata()),
		Version:            o.Version(),
		CreatedAt:          o.CreatedAt(),
		UpdatedAt:          o.UpdatedAt(),
	}

	if c := o.Customer(); c != nil {
		id := c.ID
		email := c.Email
		firstName := c.FirstName
		lastName := c.LastName
		model.CustomerID = &id
		model.CustomerEmail = &email
		model.CustomerFirstName = &firstName
		model.CustomerLastName = &lastName
	}

	return model
}

func OrderToDomain(model *models.OrderModel) *order.Order {
	var customer *order.Customer
	if model.CustomerEmail != nil {
		customer = &order.Customer{Email: *model.CustomerEmail}
		if model.CustomerID != nil {
			customer.ID = *model.CustomerID
		}
		if model.CustomerFirstName != nil {
			customer.FirstName = *model.CustomerFirstName
		}
		if model.CustomerLastName != nil {
			customer.LastName = *model.CustomerLastName
		}
	}

	settlements := make([]order.SettlementRecord, 0, len(model.Settlements))
	for i := range model.Settlements {
		settlements = append(settlements, SettlementRecordToDomain(&model.Settlements[i]))
	}

	return order.ReconstructOrder(
		model.ID,
		model.Code,
		model.SessionToken,
		vo.OrderState(model.State),
		vo.NewMoney(model.TotalMinor, model.Currency),
		customer,
		model.ShippingMethodCode,
		model.LineCount,
		settlements,
		map[string]interface{}(model.Metadata),
		model.Version,
		model.CreatedAt,
		model.UpdatedAt,
	)
}

func SettlementRecordToModel(orderID uint, rec order.SettlementRecord) *models.SettlementRecordModel {
	return &models.SettlementRecordModel{
		ID:            rec.ID(),
		OrderID:       orderID,
		Reference:     rec.Reference(),
		TransactionID: rec.TransactionID(),
		MethodCode:    rec.MethodCode(),
		Channel:       rec.Channel(),
		AmountMinor:   rec.Amount().AmountMinor(),
		Currency:      rec.Amount().Currency(),
		PaidAt:        rec.PaidAt(),
		Metadata:      models.JSONB(rec.Metadata()),
		CreatedAt:     rec.CreatedAt(),
	}
}

func SettlementRecordToDomain(model *models.SettlementRecordModel) order.SettlementRecord {
	return order.ReconstructSettlementRecord(
		model.ID,
		model.OrderID,
		model.TransactionID,
		model.Reference,
		model.MethodCode,
		model.Channel,
		vo.NewMoney(model.AmountMinor, model.Currency),
		model.PaidAt,
		map[string]interface{}(model.Metadata),
		model.CreatedAt,
	)
}
