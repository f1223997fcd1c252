package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"laundromat-backend/models"
)

const (
	recentOrdersLimit  = 5
	upcomingPickUpDays = 2
)

// DashboardOverview is the summary shown on the front desk's landing page.
type DashboardOverview struct {
	TotalCustomers  int              `json:"totalCustomers"`
	TotalOrders     int              `json:"totalOrders"`
	MonthlyRevenue  decimal.Decimal  `json:"monthlyRevenue"`
	MonthlyLoads    int              `json:"monthlyLoads"`
	RecentOrders    []RecentOrder    `json:"recentOrders"`
	UpcomingPickUps []UpcomingPickUp `json:"upcomingPickUps"`
}

type RecentOrder struct {
	Name       string          `json:"name"`
	Loads      int             `json:"loads"`
	Price      decimal.Decimal `json:"price"`
	DroppedOff string          `json:"droppedOff"` // "Today", "Yesterday", "3 days ago"
}

type UpcomingPickUp struct {
	Name        string             `json:"name"`
	PhoneNumber models.PhoneNumber `json:"phoneNumber"`
	PickUpDate  time.Time          `json:"pickUpDate"`
	Due         string             `json:"due"` // "Today", "Tomorrow"
}

// Overview totals this month's orders in the business time zone and lists
// the latest orders and the pick-ups due today or tomorrow.
func (s *LaundryService) Overview(ctx context.Context) (DashboardOverview, error) {
	customers, err := s.ListCustomers(ctx)
	if err != nil {
		return DashboardOverview{}, err
	}
	orders, err := s.ListLaundryOrders(ctx)
	if err != nil {
		return DashboardOverview{}, err
	}
	models.SortOrdersByDateDesc(orders)

	now := s.now().In(s.loc)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, s.loc)
	firstOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, s.loc)

	overview := DashboardOverview{
		TotalCustomers:  len(customers),
		TotalOrders:     len(orders),
		MonthlyRevenue:  decimal.Zero,
		RecentOrders:    []RecentOrder{},
		UpcomingPickUps: []UpcomingPickUp{},
	}

	for _, o := range orders {
		if !o.DropOffDate.Before(firstOfMonth) {
			overview.MonthlyRevenue = overview.MonthlyRevenue.Add(o.Price)
			overview.MonthlyLoads += o.Loads
		}

		if len(overview.RecentOrders) < recentOrdersLimit {
			overview.RecentOrders = append(overview.RecentOrders, RecentOrder{
				Name:       customerName(o),
				Loads:      o.Loads,
				Price:      o.Price,
				DroppedOff: daysAgoLabel(daysBetween(o.DropOffDate.In(s.loc), today)),
			})
		}

		days := daysBetween(today, o.PickUpDate.In(s.loc))
		if o.PickUpDate.Before(now) || days >= upcomingPickUpDays {
			continue
		}
		var phone models.PhoneNumber
		if o.Customer != nil {
			phone = o.Customer.PhoneNumber
		}
		overview.UpcomingPickUps = append(overview.UpcomingPickUps, UpcomingPickUp{
			Name:        customerName(o),
			PhoneNumber: phone,
			PickUpDate:  o.PickUpDate,
			Due:         dueLabel(days),
		})
	}

	sort.SliceStable(overview.UpcomingPickUps, func(i, j int) bool {
		return overview.UpcomingPickUps[i].PickUpDate.Before(overview.UpcomingPickUps[j].PickUpDate)
	})
	return overview, nil
}

func customerName(o models.LaundryOrder) string {
	if o.Customer == nil {
		return ""
	}
	return o.Customer.Name
}

// daysBetween counts calendar days from a to b, both already in the same zone.
func daysBetween(a, b time.Time) int {
	da := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	db := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(db.Sub(da).Hours() / 24)
}

func daysAgoLabel(days int) string {
	switch {
	case days <= 0:
		return "Today"
	case days == 1:
		return "Yesterday"
	default:
		return fmt.Sprintf("%d days ago", days)
	}
}

func dueLabel(days int) string {
	if days <= 0 {
		return "Today"
	}
	return "Tomorrow"
}
