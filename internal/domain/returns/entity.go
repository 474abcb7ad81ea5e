// internal/domain/returns/entity.go
package returns

import (
	"time"

	"gorm.io/gorm"
)

// RequestType distinguishes returns from replacements
type RequestType string

const (
	TypeReturn  RequestType = "return"
	TypeReplace RequestType = "replace"
)

// RequestReason enumerates the customer-selectable reasons
type RequestReason string

const (
	ReasonDamaged        RequestReason = "damaged"
	ReasonDefective      RequestReason = "defective"
	ReasonWrongItem      RequestReason = "wrong_item"
	ReasonSizeIssue      RequestReason = "size_issue"
	ReasonNotAsDescribed RequestReason = "not_as_described"
	ReasonChangedMind    RequestReason = "changed_mind"
	ReasonOther          RequestReason = "other"
)

// Request represents a return/replace request for one order item.
// Creation and cancellation are customer actions; every other transition
// is performed by a seller/admin actor.
type Request struct {
	ID          uint          `gorm:"primaryKey" json:"id"`
	OrderID     uint          `gorm:"not null;index" json:"order_id"`
	OrderItemID uint          `gorm:"not null;index" json:"order_item_id"`
	UserID      uint          `gorm:"not null;index" json:"user_id"`
	Type        RequestType   `gorm:"not null;size:20" json:"type"`
	Reason      RequestReason `gorm:"not null;size:50" json:"reason"`
	Status      StatusValue   `gorm:"not null;default:'requested';index" json:"status"`
	Quantity    int           `gorm:"not null;default:1" json:"quantity"`
	Description string        `gorm:"type:text" json:"description"`
	Images      string        `gorm:"type:text" json:"images"` // Comma-separated image URLs

	// Pickup and inspection metadata
	PickupScheduledFor *time.Time `json:"pickup_scheduled_for"`
	PickedUpAt         *time.Time `json:"picked_up_at"`
	InspectionNotes    string     `gorm:"type:text" json:"inspection_notes"`

	// Resolution: exactly one of these is set at completion depending
	// on the request type.
	RefundAmount       *int64 `json:"refund_amount,omitempty"` // In cents
	ReplacementOrderID *uint  `gorm:"index" json:"replacement_order_id,omitempty"`

	RejectionReason string `gorm:"type:text" json:"rejection_reason"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Timeline []TimelineEntry `gorm:"foreignKey:RequestID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"timeline,omitempty"`
}

// TimelineEntry is an append-only log entry written with every transition.
// Entries flagged customer-visible appear in the customer's request view;
// internal entries do not.
type TimelineEntry struct {
	ID              uint        `gorm:"primaryKey" json:"id"`
	RequestID       uint        `gorm:"not null;index" json:"request_id"`
	Status          StatusValue `gorm:"not null" json:"status"`
	Note            string      `gorm:"type:text" json:"note"`
	ActorID         uint        `gorm:"index" json:"actor_id"`
	CustomerVisible bool        `gorm:"default:true" json:"customer_visible"`
	CreatedAt       time.Time   `json:"created_at"`
}

// TableName overrides
func (Request) TableName() string       { return "return_replace_requests" }
func (TimelineEntry) TableName() string { return "return_request_timeline" }

// Open reports whether the request still occupies its order item. Only
// one open request may exist per order item at a time.
func (r *Request) Open() bool {
	return !r.Status.Terminal()
}
