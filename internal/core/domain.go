package core

import (
	"encoding/json"
	"errors"
	"strings"
	"time"
)

const (
	// Lunas is the domain value meaning "paid in full".
	Paid    PaymentStatus = "Lunas"
	Pending PaymentStatus = "Pending"

	Fixed    TransactionType = "fixed"
	Variable TransactionType = "variable"

	InvoiceUnpaid InvoiceStatus = "Unpaid"
	InvoicePaid   InvoiceStatus = "Paid"
)

type (
	PaymentStatus   string
	TransactionType string
	InvoiceStatus   string

	// Date is a calendar date serialized as "2006-01-02". Unparseable
	// stored values decode to the zero date instead of failing the
	// record, matching the countdown sentinel behavior.
	Date struct {
		time.Time
	}

	// Order is one wedding-invitation sale. Countdown is derived from
	// EventDate at read time and never authoritative in storage.
	Order struct {
		ID            string        `json:"id"`
		ClientName    string        `json:"clientName"`
		OrderDate     Date          `json:"orderDate"`
		EventDate     Date          `json:"eventDate"`
		CountdownDays int           `json:"countdownDays"`
		VendorID      string        `json:"vendorId"`
		ThemeID       string        `json:"themeId"`
		PackageID     string        `json:"packageId"`
		AddonIDs      []string      `json:"addonIds,omitempty"`
		PaymentStatus PaymentStatus `json:"paymentStatus"`
		PaymentAmount Money         `json:"paymentAmount"`
		WorkStatus    string        `json:"workStatus"`
	}

	// Transaction is an expense or income entry in the monthly ledger.
	// Budget only applies to fixed (recurring) entries.
	Transaction struct {
		ID          string          `json:"id"`
		Date        Date            `json:"date"`
		Type        TransactionType `json:"type"`
		Description string          `json:"description"`
		Amount      Money           `json:"amount"`
		CategoryID  string          `json:"categoryId"`
		Budget      Money           `json:"budget,omitempty"`
		IsPaid      bool            `json:"isPaid"`
	}

	// InvoiceLine is a denormalized snapshot of an order included in an
	// invoice. Older records carry the order reference under "id",
	// newer ones under "orderId"; both are kept readable.
	InvoiceLine struct {
		LegacyID   string `json:"id,omitempty"`
		OrderID    string `json:"orderId,omitempty"`
		ClientName string `json:"clientName"`
		OrderDate  Date   `json:"orderDate"`
		Amount     Money  `json:"amount"`
	}

	Invoice struct {
		ID          string        `json:"id"`
		Number      string        `json:"number"`
		VendorID    string        `json:"vendorId"`
		VendorName  string        `json:"vendorName"`
		IssueDate   Date          `json:"issueDate"`
		DueDate     Date          `json:"dueDate"`
		Status      InvoiceStatus `json:"status"`
		Lines       []InvoiceLine `json:"orders"`
		TotalAmount Money         `json:"totalAmount"`
	}

	// Vendor carries a short code used in invoice numbers.
	Vendor struct {
		ID    string `json:"id"`
		Name  string `json:"name"`
		Code  string `json:"code"`
		Color string `json:"color,omitempty"`
	}

	// RefItem is the shape of the remaining lookup entities: themes,
	// packages, addons, work statuses.
	RefItem struct {
		ID    string `json:"id"`
		Name  string `json:"name"`
		Color string `json:"color,omitempty"`
	}
)

var (
	ErrEmptyClientName  = errors.New("empty client name")
	ErrEmptyDescription = errors.New("empty description")
	ErrInvalidStatus    = errors.New("invalid payment status")
	ErrInvalidType      = errors.New("invalid transaction type")
	ErrMissingOrderDate = errors.New("missing order date")
)

const dateLayout = "2006-01-02"

// NewDate creates a Date from year, month, day.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte(`""`), nil
	}
	return json.Marshal(d.Format(dateLayout))
}

// UnmarshalJSON parses "2006-01-02" and falls back to RFC 3339. A value
// that parses as neither decodes to the zero date; downstream code
// treats that as the countdown sentinel.
func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		d.Time = time.Time{}
		return nil
	}
	s = strings.TrimSpace(s)
	if s == "" {
		d.Time = time.Time{}
		return nil
	}
	if t, err := time.Parse(dateLayout, s); err == nil {
		d.Time = t
		return nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		d.Time = t
		return nil
	}
	d.Time = time.Time{}
	return nil
}

func (s PaymentStatus) Valid() bool {
	return s == Paid || s == Pending
}

func (t TransactionType) Valid() bool {
	return t == Fixed || t == Variable
}

func (o Order) Validate() error {
	if strings.TrimSpace(o.ClientName) == "" {
		return ErrEmptyClientName
	}
	if o.OrderDate.IsZero() {
		return ErrMissingOrderDate
	}
	if !o.PaymentStatus.Valid() {
		return ErrInvalidStatus
	}
	if o.PaymentAmount.Rupiah < 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (t Transaction) Validate() error {
	if strings.TrimSpace(t.Description) == "" {
		return ErrEmptyDescription
	}
	if !t.Type.Valid() {
		return ErrInvalidType
	}
	if t.Amount.Rupiah < 0 || t.Budget.Rupiah < 0 {
		return ErrInvalidAmount
	}
	return nil
}

// Ref returns the order reference of an invoice line regardless of which
// historical field carries it.
func (l InvoiceLine) Ref() string {
	if l.OrderID != "" {
		return l.OrderID
	}
	return l.LegacyID
}

// Matches reports whether the line references the given order id under
// either field name.
func (l InvoiceLine) Matches(orderID string) bool {
	return orderID != "" && (l.OrderID == orderID || l.LegacyID == orderID)
}

// Total recomputes the invoice total from its lines. Stored totals are
// never trusted; callers display and persist this value.
func (inv Invoice) Total() int64 {
	var sum int64
	for _, l := range inv.Lines {
		sum += l.Amount.Rupiah
	}
	return sum
}
