// Package model содержит доменные сущности интернет-магазина.
package model

import "time"

// Role определяет роль пользователя в системе.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleAdmin    Role = "admin"
)

// User представляет зарегистрированного покупателя или администратора.
type User struct {
	ID           int64
	Name         string
	Email        string
	PasswordHash []byte
	Role         Role
	CreatedAt    time.Time
}

// Product описывает товар каталога. Цена хранится в сентаво.
type Product struct {
	ID          int64
	Name        string
	Description string
	PriceCents  int64
	Image       string
	Category    string
	IsFeatured  bool
	CreatedAt   time.Time
}

// CartItem описывает позицию корзины пользователя: товар и его количество.
type CartItem struct {
	Product  Product
	Quantity int
}

// Coupon описывает персональный скидочный купон пользователя.
type Coupon struct {
	ID                 int64
	Code               string
	UserID             int64
	DiscountPercentage int
	IsActive           bool
	ExpiresAt          time.Time
	CreatedAt          time.Time
}

// Expired сообщает, истёк ли срок действия купона на указанный момент.
func (c *Coupon) Expired(now time.Time) bool {
	return !c.ExpiresAt.After(now)
}

// PaymentMethod определяет способ оплаты заказа.
type PaymentMethod string

const (
	PaymentMethodCard   PaymentMethod = "card"
	PaymentMethodCOD    PaymentMethod = "cod"
	PaymentMethodPickup PaymentMethod = "pickup"
)

// OrderStatus описывает статус жизненного цикла заказа.
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusPaid       OrderStatus = "paid"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// ValidOrderStatus проверяет, что значение является одним из определённых статусов.
func ValidOrderStatus(s OrderStatus) bool {
	switch s {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusPaid,
		OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// Terminal сообщает, является ли статус конечным. Из delivered и cancelled
// дальнейшие переходы запрещены.
func (s OrderStatus) Terminal() bool {
	return s == OrderStatusDelivered || s == OrderStatusCancelled
}

// CanTransition проверяет допустимость перехода заказа из статуса s в to.
func (s OrderStatus) CanTransition(to OrderStatus) bool {
	if !ValidOrderStatus(to) || s.Terminal() {
		return false
	}
	return s != to
}

// OrderItem описывает позицию заказа. Цена фиксируется на момент оформления
// и не пересчитывается по актуальной цене товара.
type OrderItem struct {
	ProductID   int64
	ProductName string
	Quantity    int
	PriceCents  int64
}

// CustomerInfo содержит контактные данные и адрес доставки покупателя.
// Адресные поля обязательны только для оплаты при получении (cod).
type CustomerInfo struct {
	FullName   string
	Email      string
	Phone      string
	Address    string
	City       string
	PostalCode string
	Notes      string
}

// Order описывает оформленный заказ. Кроме статуса заказ неизменяем.
type Order struct {
	ID               int64
	UserID           int64
	Items            []OrderItem
	TotalCents       int64
	PaymentMethod    PaymentMethod
	Status           OrderStatus
	PaymentSessionID string
	Customer         CustomerInfo
	CreatedAt        time.Time
}

// AnalyticsSummary содержит сводные показатели для панели администратора.
type AnalyticsSummary struct {
	Users        int64
	Products     int64
	Sales        int64
	RevenueCents int64
}

// SalesPoint описывает продажи и выручку за один день.
type SalesPoint struct {
	Date         time.Time
	Sales        int64
	RevenueCents int64
}
