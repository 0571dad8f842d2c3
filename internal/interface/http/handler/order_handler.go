package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/campus-market/internal/domain/entity"
	"github.com/ignatzorin/campus-market/internal/domain/repository"
	"github.com/ignatzorin/campus-market/internal/domain/valueobject"
	"github.com/ignatzorin/campus-market/internal/interface/http/dto"
	"github.com/ignatzorin/campus-market/internal/interface/http/response"
	"github.com/ignatzorin/campus-market/internal/logger"
	"github.com/ignatzorin/campus-market/internal/usecase/order"
)

// OrderUseCases операции над сделками, доступные через HTTP.
type OrderUseCases struct {
	Open           *order.OpenOrderUseCase
	Get            *order.GetOrderUseCase
	List           *order.ListOrdersUseCase
	Statistics     *order.OrderStatisticsUseCase
	Cancel         *order.CancelOrderUseCase
	Pay            *order.PayOrderUseCase
	Ship           *order.ShipOrderUseCase
	Confirm        *order.ConfirmReceiptUseCase
	ApplyRefund    *order.ApplyRefundUseCase
	ApproveRefund  *order.ApproveRefundUseCase
	RejectRefund   *order.RejectRefundUseCase
	ApplyDispute   *order.ApplyDisputeUseCase
	ReviewDispute  *order.StartDisputeReviewUseCase
	ResolveDispute *order.ResolveDisputeUseCase
}

// NewOrderUseCases собирает все операции над сделками на общих зависимостях.
func NewOrderUseCases(deps order.Deps) OrderUseCases {
	return OrderUseCases{
		Open:           order.NewOpenOrderUseCase(deps),
		Get:            order.NewGetOrderUseCase(deps.UoW.Orders()),
		List:           order.NewListOrdersUseCase(deps.UoW.Orders()),
		Statistics:     order.NewOrderStatisticsUseCase(deps.UoW.Orders()),
		Cancel:         order.NewCancelOrderUseCase(deps),
		Pay:            order.NewPayOrderUseCase(deps),
		Ship:           order.NewShipOrderUseCase(deps),
		Confirm:        order.NewConfirmReceiptUseCase(deps),
		ApplyRefund:    order.NewApplyRefundUseCase(deps),
		ApproveRefund:  order.NewApproveRefundUseCase(deps),
		RejectRefund:   order.NewRejectRefundUseCase(deps),
		ApplyDispute:   order.NewApplyDisputeUseCase(deps),
		ReviewDispute:  order.NewStartDisputeReviewUseCase(deps),
		ResolveDispute: order.NewResolveDisputeUseCase(deps),
	}
}

type OrderHandler struct {
	uc    OrderUseCases
	users repository.UserDirectory
}

// NewOrderHandler создаёт обработчик. users может быть nil, тогда карточка
// сделки отдаётся без профилей сторон.
func NewOrderHandler(uc OrderUseCases, users repository.UserDirectory) *OrderHandler {
	return &OrderHandler{uc: uc, users: users}
}

func (h *OrderHandler) CreateOrder(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		response.Unauthorized(c, "требуется авторизация")
		return
	}

	var req dto.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "некорректные данные запроса")
		return
	}

	bargainID, err := dto.ParseOptionalUUID(req.BargainID)
	if err != nil {
		response.BadRequest(c, "некорректный ID предложения цены")
		return
	}

	created, err := h.uc.Open.Execute(c.Request.Context(), order.OpenOrderInput{
		ListingID:     uuid.MustParse(req.ListingID),
		BuyerID:       userID,
		BargainID:     bargainID,
		TradeType:     req.TradeType,
		TradeLocation: req.TradeLocation,
		Remark:        req.Remark,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, dto.ToOrderResponse(created))
}

func (h *OrderHandler) GetOrder(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		response.Unauthorized(c, "требуется авторизация")
		return
	}

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "некорректный ID заказа")
		return
	}

	o, err := h.uc.Get.Execute(c.Request.Context(), orderID, userID, isModerator(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	resp := dto.ToOrderResponse(o)
	resp.Buyer = h.lookupUser(c.Request.Context(), o.BuyerID)
	resp.Seller = h.lookupUser(c.Request.Context(), o.SellerID)
	response.Success(c, resp)
}

// lookupUser подтягивает профиль для карточки. Ошибка не мешает ответу.
func (h *OrderHandler) lookupUser(ctx context.Context, id uuid.UUID) *dto.UserBrief {
	if h.users == nil {
		return nil
	}
	u, err := h.users.GetUser(ctx, id)
	if err != nil {
		logger.WithComponent("http").WithFields(logrus.Fields{
			"user_id": id,
			"error":   err,
		}).Debug("профиль стороны сделки недоступен")
		return nil
	}
	return dto.ToUserBrief(u)
}

func (h *OrderHandler) ListOrders(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		response.Unauthorized(c, "требуется авторизация")
		return
	}

	role, err := valueobject.NewParticipantRole(c.Query("role"))
	if err != nil {
		response.Error(c, err)
		return
	}

	var status valueobject.OrderStatus
	if raw := c.Query("status"); raw != "" {
		if status, err = valueobject.NewOrderStatus(raw); err != nil {
			response.Error(c, err)
			return
		}
	}

	filter := repository.OrderFilter{
		UserID: userID,
		Role:   role,
		Status: status,
		Limit:  parseIntQuery(c, "limit", 20),
		Offset: parseIntQuery(c, "offset", 0),
	}

	orders, total, err := h.uc.List.Execute(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	limit := filter.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	response.Paginated(c, dto.ToOrderListResponse(orders), total, limit, filter.Offset)
}

func (h *OrderHandler) GetStatistics(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		response.Unauthorized(c, "требуется авторизация")
		return
	}

	stats, err := h.uc.Statistics.Execute(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.ToOrderStatisticsResponse(stats))
}

// orderAction переход сделки, которому нужен только её участник.
type orderAction interface {
	Execute(ctx context.Context, orderID, actorID uuid.UUID) (*entity.Order, error)
}

func (h *OrderHandler) action(uc orderAction) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := getUserID(c)
		if err != nil {
			response.Unauthorized(c, "требуется авторизация")
			return
		}

		orderID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			response.BadRequest(c, "некорректный ID заказа")
			return
		}

		o, err := uc.Execute(c.Request.Context(), orderID, userID)
		if err != nil {
			response.Error(c, err)
			return
		}

		response.Success(c, dto.ToOrderResponse(o))
	}
}

func (h *OrderHandler) CancelOrder() gin.HandlerFunc    { return h.action(h.uc.Cancel) }
func (h *OrderHandler) PayOrder() gin.HandlerFunc       { return h.action(h.uc.Pay) }
func (h *OrderHandler) ShipOrder() gin.HandlerFunc      { return h.action(h.uc.Ship) }
func (h *OrderHandler) ConfirmReceipt() gin.HandlerFunc { return h.action(h.uc.Confirm) }
func (h *OrderHandler) ApproveRefund() gin.HandlerFunc  { return h.action(h.uc.ApproveRefund) }
func (h *OrderHandler) RejectRefund() gin.HandlerFunc   { return h.action(h.uc.RejectRefund) }

func (h *OrderHandler) ApplyRefund(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		response.Unauthorized(c, "требуется авторизация")
		return
	}

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "некорректный ID заказа")
		return
	}

	var req dto.RefundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "укажите причину возврата")
		return
	}

	o, err := h.uc.ApplyRefund.Execute(c.Request.Context(), orderID, userID, req.Reason)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.ToOrderResponse(o))
}

func (h *OrderHandler) ApplyDispute(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		response.Unauthorized(c, "требуется авторизация")
		return
	}

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "некорректный ID заказа")
		return
	}

	var req dto.DisputeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "укажите причину спора")
		return
	}

	o, err := h.uc.ApplyDispute.Execute(c.Request.Context(), orderID, userID, req.Reason, req.Evidence)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.ToOrderResponse(o))
}

func (h *OrderHandler) ReviewDispute(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "некорректный ID заказа")
		return
	}

	o, err := h.uc.ReviewDispute.Execute(c.Request.Context(), orderID, isModerator(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.ToOrderResponse(o))
}

func (h *OrderHandler) ResolveDispute(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "некорректный ID заказа")
		return
	}

	var req dto.ResolveDisputeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "укажите решение по спору")
		return
	}

	o, err := h.uc.ResolveDispute.Execute(c.Request.Context(), orderID, isModerator(c), order.ResolveDisputeInput{
		Resolution: valueobject.DisputeResolution(req.Resolution),
		Note:       req.Note,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.ToOrderResponse(o))
}
