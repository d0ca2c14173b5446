package models

// Stats is the dashboard payload: KPI counters plus chart series.
type Stats struct {
	Residents               int               `json:"residents"`
	ActiveStaff             int               `json:"activeStaff"`
	DonationsThisMonth      float64           `json:"donationsThisMonth"`
	DonationsThisMonthLabel string            `json:"donationsThisMonthLabel"`
	VisitorsToday           int               `json:"visitorsToday"`
	MonthlyDonations        []MonthlyDonation `json:"monthlyDonations"`
	VisitorTraffic          []DailyVisitors   `json:"visitorTraffic"`
	StaffDistribution       []DepartmentCount `json:"staffDistribution"`
	GeneratedAt             string            `json:"generatedAt"`
}

type MonthlyDonation struct {
	Month  string  `json:"month"`
	Amount float64 `json:"amount"`
}

type DailyVisitors struct {
	Day      string `json:"day"`
	Visitors int    `json:"visitors"`
}

type DepartmentCount struct {
	Department string `json:"department"`
	Value      int    `json:"value"`
}
