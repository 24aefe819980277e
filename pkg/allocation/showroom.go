package allocation

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ShowRoom is a sales outlet with a fixed monthly monetary target.
// Equality is keyed on the reference string.
type ShowRoom struct {
	Reference     string
	AssignedTotal decimal.Decimal
	Sales         []Sale
	DailySales    []DailySale
}

func NewShowRoom(reference string, assignedTotal decimal.Decimal) *ShowRoom {
	return &ShowRoom{Reference: reference, AssignedTotal: assignedTotal}
}

func (sh *ShowRoom) Equal(other *ShowRoom) bool {
	return other != nil && sh.Reference == other.Reference
}

func (sh *ShowRoom) AddSale(s Sale) {
	sh.Sales = append(sh.Sales, s)
}

func (sh *ShowRoom) AddSales(sales []Sale) {
	sh.Sales = append(sh.Sales, sales...)
}

// CalculatedTotal is the sum of all sale amounts, always derivable and
// compared against AssignedTotal to judge solution quality.
func (sh *ShowRoom) CalculatedTotal() decimal.Decimal {
	total := decimal.Zero
	for _, s := range sh.Sales {
		total = total.Add(s.TotalAmount())
	}
	return total
}

// AddDailySales records a day's sales under the next open calendar date,
// rolling past the weekly closure day. Returns the date used.
func (sh *ShowRoom) AddDailySales(day, month, year int, closure time.Weekday, sales []Sale) time.Time {
	date := NextOpenDate(year, month, day, closure)
	sh.DailySales = append(sh.DailySales, DailySale{Day: day, Date: date, Sales: sales})
	return date
}

func (sh *ShowRoom) String() string {
	return fmt.Sprintf("Showroom %s (%s)", sh.Reference, sh.AssignedTotal)
}

// DailySale groups a day's sales, optionally split further per customer.
type DailySale struct {
	Day       int
	Date      time.Time
	Sales     []Sale
	Customers []Customer
}

func (d *DailySale) TotalAmount() decimal.Decimal {
	total := decimal.Zero
	for _, s := range d.Sales {
		total = total.Add(s.TotalAmount())
	}
	return total
}

func (d *DailySale) TotalUnits() Quantity {
	var units Quantity
	for _, s := range d.Sales {
		units += s.UnitsSold
	}
	return units
}

// AddCustomerPurchases attaches one customer per purchase list, numbered from 1.
func (d *DailySale) AddCustomerPurchases(purchases [][]Sale) {
	for i, purchase := range purchases {
		d.Customers = append(d.Customers, Customer{ID: i + 1, Purchases: purchase})
	}
}

// Customer is a per-day purchase bucket produced by the customer fan-out pass.
type Customer struct {
	ID        int
	Purchases []Sale
}

// UniqueID derives a stable reference for the customer from its position in
// the month/day/showroom hierarchy.
func (c Customer) UniqueID(month, day int, showroom string) string {
	key := fmt.Sprintf("%d%d%d%s", month, day, c.ID, showroom)
	id := uuid.NewMD5(uuid.NameSpaceOID, []byte(key))
	hex := strings.ReplaceAll(id.String(), "-", "")
	return "C" + strings.ToUpper(hex[:10])
}
