package order

import (
	"context"

	"github.com/google/uuid"

	"github.com/ignatzorin/campus-market/internal/domain/entity"
	"github.com/ignatzorin/campus-market/internal/domain/repository"
	"github.com/ignatzorin/campus-market/internal/metrics"
	"github.com/ignatzorin/campus-market/internal/usecase/listing"
	"github.com/ignatzorin/campus-market/internal/validation"
)

type OpenOrderInput struct {
	ListingID uuid.UUID
	BuyerID   uuid.UUID
	// BargainID принятое предложение цены этого покупателя. Без него цена берётся из товара.
	BargainID     *uuid.UUID
	TradeType     string
	TradeLocation string
	Remark        string
}

type OpenOrderUseCase struct {
	deps Deps
}

func NewOpenOrderUseCase(deps Deps) *OpenOrderUseCase {
	return &OpenOrderUseCase{deps: deps}
}

// Execute резервирует товар и создаёт сделку в статусе PENDING. Цена
// фиксируется в момент резервирования и дальше не перечитывается.
func (uc *OpenOrderUseCase) Execute(ctx context.Context, input OpenOrderInput) (order *entity.Order, err error) {
	defer func() { metrics.ObserveOrder("open", err) }()

	if err = validation.ValidateOrderInput(input.TradeType, input.TradeLocation, input.Remark); err != nil {
		return nil, err
	}

	now := uc.deps.now()
	err = uc.deps.UoW.Do(ctx, func(ctx context.Context, repos repository.Repositories) error {
		l, err := listing.Reserve(ctx, repos.Listings(), input.ListingID, input.BuyerID)
		if err != nil {
			return err
		}

		price := l.Price
		var b *entity.Bargain
		if input.BargainID != nil {
			if b, err = repos.Bargains().FindByID(ctx, *input.BargainID); err != nil {
				return err
			}
			if err := b.CanOpenOrder(input.BuyerID, l.ID); err != nil {
				return err
			}
			price = b.ProposedPrice
		}

		o, err := entity.NewOrder(entity.NewOrderInput{
			Listing:       l,
			BuyerID:       input.BuyerID,
			Price:         price,
			BargainID:     input.BargainID,
			TradeType:     input.TradeType,
			TradeLocation: input.TradeLocation,
			Remark:        input.Remark,
		}, now)
		if err != nil {
			return err
		}
		if err := repos.Orders().Create(ctx, o); err != nil {
			return err
		}

		if b != nil {
			b.AttachOrder(o.ID, now)
			if err := repos.Bargains().Update(ctx, b); err != nil {
				return err
			}
		}

		order = o
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.deps.notify(ctx, order.SellerID, entity.NotificationOrder, "Новый заказ на ваш товар", order)
	return order, nil
}
