package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ignatzorin/campus-market/internal/domain/entity"
	"github.com/ignatzorin/campus-market/internal/interface/http/dto"
	"github.com/ignatzorin/campus-market/internal/interface/http/response"
	"github.com/ignatzorin/campus-market/internal/usecase/bargain"
)

type BargainUseCases struct {
	Propose     *bargain.ProposeBargainUseCase
	Accept      *bargain.AcceptBargainUseCase
	Reject      *bargain.RejectBargainUseCase
	Cancel      *bargain.CancelBargainUseCase
	Get         *bargain.GetBargainUseCase
	ListListing *bargain.ListListingBargainsUseCase
	ListMine    *bargain.ListMyBargainsUseCase
}

type BargainHandler struct {
	uc BargainUseCases
}

func NewBargainHandler(uc BargainUseCases) *BargainHandler {
	return &BargainHandler{uc: uc}
}

func (h *BargainHandler) CreateBargain(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		response.Unauthorized(c, "требуется авторизация")
		return
	}

	var req dto.CreateBargainRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "некорректные данные запроса")
		return
	}

	b, err := h.uc.Propose.Execute(c.Request.Context(), bargain.ProposeInput{
		ListingID:     uuid.MustParse(req.ListingID),
		ProposerID:    userID,
		OriginalPrice: req.OriginalPrice,
		ProposedPrice: req.ProposedPrice,
		Message:       req.Message,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, dto.ToBargainResponse(b))
}

func (h *BargainHandler) GetBargain(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		response.Unauthorized(c, "требуется авторизация")
		return
	}

	bargainID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "некорректный ID предложения")
		return
	}

	b, err := h.uc.Get.Execute(c.Request.Context(), bargainID, userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.ToBargainResponse(b))
}

func (h *BargainHandler) ListMyBargains(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		response.Unauthorized(c, "требуется авторизация")
		return
	}

	limit := parseIntQuery(c, "limit", 20)
	offset := parseIntQuery(c, "offset", 0)

	bargains, total, err := h.uc.ListMine.Execute(c.Request.Context(), userID, limit, offset)
	if err != nil {
		response.Error(c, err)
		return
	}

	if limit <= 0 || limit > 100 {
		limit = 20
	}
	response.Paginated(c, dto.ToBargainListResponse(bargains), total, limit, offset)
}

func (h *BargainHandler) ListListingBargains(c *gin.Context) {
	listingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "некорректный ID товара")
		return
	}

	bargains, err := h.uc.ListListing.Execute(c.Request.Context(), listingID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.ToBargainListResponse(bargains))
}

type bargainAction interface {
	Execute(ctx context.Context, bargainID, actorID uuid.UUID) (*entity.Bargain, error)
}

func (h *BargainHandler) action(uc bargainAction) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := getUserID(c)
		if err != nil {
			response.Unauthorized(c, "требуется авторизация")
			return
		}

		bargainID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			response.BadRequest(c, "некорректный ID предложения")
			return
		}

		b, err := uc.Execute(c.Request.Context(), bargainID, userID)
		if err != nil {
			response.Error(c, err)
			return
		}

		response.Success(c, dto.ToBargainResponse(b))
	}
}

func (h *BargainHandler) AcceptBargain() gin.HandlerFunc { return h.action(h.uc.Accept) }
func (h *BargainHandler) RejectBargain() gin.HandlerFunc { return h.action(h.uc.Reject) }
func (h *BargainHandler) CancelBargain() gin.HandlerFunc { return h.action(h.uc.Cancel) }
