package handler

import (
	"errors"
	"strconv"

	"marketplace/internal/config"
	"marketplace/internal/infrastructure/search"
	"marketplace/internal/repository"
	"marketplace/internal/service"
	"marketplace/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

// Handler 统一处理器，包含所有服务依赖
type Handler struct {
	authService       *service.AuthService
	onboardingService *service.OnboardingService
	productService    *service.ProductService
	orderService      *service.OrderService
	pickupService     *service.PickupService
	warehouseService  *service.WarehouseService
	earningService    *service.EarningService
	payoutService     *service.PayoutService
	invoiceService    *service.InvoiceService
	analyticsService  *service.AnalyticsService
}

// NewHandler 创建处理器实例
func NewHandler(db *gorm.DB, rdb *redis.Client, cfg *config.Config, indexer *search.ProductIndexer) *Handler {
	return &Handler{
		authService:       service.NewAuthService(db, cfg),
		onboardingService: service.NewOnboardingService(db),
		productService:    service.NewProductService(db, cfg, indexer),
		orderService:      service.NewOrderService(db, rdb, cfg),
		pickupService:     service.NewPickupService(db, rdb, cfg),
		warehouseService:  service.NewWarehouseService(db),
		earningService:    service.NewEarningService(db),
		payoutService:     service.NewPayoutService(db, rdb, cfg),
		invoiceService:    service.NewInvoiceService(db),
		analyticsService:  service.NewAnalyticsService(db),
	}
}

// handleError 把业务错误翻译成对应的响应码
// 未识别的错误一律按服务器内部错误处理，不向客户端透出细节以外的信息
func handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, repository.ErrOrderNotFound),
		errors.Is(err, repository.ErrUserNotFound),
		errors.Is(err, repository.ErrProfileNotFound),
		errors.Is(err, repository.ErrProductNotFound),
		errors.Is(err, repository.ErrPayoutNotFound),
		errors.Is(err, repository.ErrInvoiceNotFound),
		errors.Is(err, repository.ErrWarehouseNotFound),
		errors.Is(err, repository.ErrLocationNotFound):
		response.NotFound(c, err.Error())

	case errors.Is(err, service.ErrInvalidCredentials):
		response.Unauthorized(c, err.Error())

	case errors.Is(err, service.ErrNotOrderCustomer),
		errors.Is(err, service.ErrNotOrderSeller),
		errors.Is(err, service.ErrNotClaimant),
		errors.Is(err, service.ErrNotProductOwner),
		errors.Is(err, service.ErrNotInvoiceOwner),
		errors.Is(err, service.ErrNotPayoutOwner):
		response.Forbidden(c, err.Error())

	case errors.Is(err, repository.ErrEmailTaken),
		errors.Is(err, service.ErrPayoutInFlight):
		response.Conflict(c, err.Error())

	case errors.Is(err, service.ErrClaimConflict):
		response.BusinessError(c, response.CodeAlreadyClaimed, err.Error())

	case errors.Is(err, service.ErrSellerNotReady),
		errors.Is(err, service.ErrPartnerNotReady):
		response.BusinessError(c, response.CodeProfileNotApproved, err.Error())

	case errors.Is(err, service.ErrStepOutOfOrder),
		errors.Is(err, service.ErrOnboardingDone),
		errors.Is(err, service.ErrNoOnboardingRequired):
		response.BusinessError(c, response.CodeOnboardingRequired, err.Error())

	case errors.Is(err, service.ErrTransitionInvalid),
		errors.Is(err, service.ErrCancelNotAllowed),
		errors.Is(err, service.ErrConfirmNotAllowed),
		errors.Is(err, service.ErrOrderNotInvoicable),
		errors.Is(err, repository.ErrOrderStatusInvalid),
		errors.Is(err, repository.ErrPayoutStatusInvalid),
		errors.Is(err, repository.ErrInvoiceStatusInvalid):
		response.BusinessError(c, response.CodeOrderStatusInvalid, err.Error())

	case errors.Is(err, repository.ErrStockNotEnough),
		errors.Is(err, repository.ErrBinStockNotEnough):
		response.BusinessError(c, response.CodeStockNotEnough, err.Error())

	case errors.Is(err, service.ErrInvoiceNotEditable):
		response.BusinessError(c, response.CodeInvoiceNotEditable, err.Error())

	case errors.Is(err, repository.ErrNoAvailableEarnings):
		response.BusinessError(c, response.CodeBalanceNotEnough, err.Error())

	case errors.Is(err, service.ErrEmptyOrder),
		errors.Is(err, service.ErrMixedSellerOrder),
		errors.Is(err, service.ErrProductNotActive),
		errors.Is(err, service.ErrPriceInvalid),
		errors.Is(err, service.ErrRoleInvalid),
		errors.Is(err, service.ErrLocationKindInvalid),
		errors.Is(err, service.ErrLocationParentRule),
		errors.Is(err, service.ErrRootAutoCreated),
		errors.Is(err, service.ErrStockOnlyOnBin),
		errors.Is(err, service.ErrLocationWrongHouse),
		errors.Is(err, repository.ErrLocationHasChild):
		response.ParamError(c, err.Error())

	default:
		response.ServerError(c, err.Error())
	}
}

// pagination 解析分页参数，越界取默认值
func pagination(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "10"))
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 10
	}
	return page, pageSize
}

func pageResult(list interface{}, total int64, page, pageSize int) gin.H {
	return gin.H{
		"list":      list,
		"total":     total,
		"page":      page,
		"page_size": pageSize,
	}
}

func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		response.ParamError(c, name+" 参数错误")
		return 0, false
	}
	return id, true
}
