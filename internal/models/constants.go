package models

// Роли пользователей
const (
	RoleAdmin     = "admin"
	RoleModerator = "moderator"
	RoleUser      = "user"
)

// OrderStatus константы статусов заказов
const (
	OrderStatusPending   = "pending"
	OrderStatusPaid      = "paid"
	OrderStatusDelivered = "delivered"
	OrderStatusCompleted = "completed"
	OrderStatusDisputed  = "disputed"
	OrderStatusCancelled = "cancelled"
)

// ListingStatus константы статусов объявлений
const (
	ListingStatusActive   = "active"
	ListingStatusInactive = "inactive"
	ListingStatusSold     = "sold"
)

// ReportStatus константы статусов жалоб
const (
	ReportStatusPending  = "pending"
	ReportStatusResolved = "resolved"
	ReportStatusRejected = "rejected"
)

// Типы изображений профиля
const (
	ProfileImageAvatar = "avatar"
	ProfileImageCover  = "cover"
)

// Бейджи продавца
const (
	BadgeOrders10 = "orders_10"
	BadgeOrders50 = "orders_50"
	BadgeTopRated = "top_rated"
)

// ValidRoles список валидных ролей
var ValidRoles = map[string]struct{}{
	RoleAdmin:     {},
	RoleModerator: {},
	RoleUser:      {},
}

// ValidOrderStatuses список валидных статусов заказов
var ValidOrderStatuses = map[string]struct{}{
	OrderStatusPending:   {},
	OrderStatusPaid:      {},
	OrderStatusDelivered: {},
	OrderStatusCompleted: {},
	OrderStatusDisputed:  {},
	OrderStatusCancelled: {},
}
