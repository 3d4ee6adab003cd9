package models

import (
	"time"
)

// Dashboard is a persisted point-in-time snapshot; the newest by LastUpdated is current.
type Dashboard struct {
	Meta `bson:",inline"`

	TotalMembers        int64     `bson:"totalMembers" json:"totalMembers"`
	TotalActivities     int64     `bson:"totalActivities" json:"totalActivities"`
	TotalDonations      int64     `bson:"totalDonations" json:"totalDonations"`
	TotalExpenses       int64     `bson:"totalExpenses" json:"totalExpenses"`
	NetBalance          int64     `bson:"netBalance" json:"netBalance"`
	WeeklyFeesCollected int64     `bson:"weeklyFeesCollected" json:"weeklyFeesCollected"`
	PendingFees         int64     `bson:"pendingFees" json:"pendingFees"`
	OverdueFees         int64     `bson:"overdueFees" json:"overdueFees"`
	TotalExperiences    int64     `bson:"totalExperiences" json:"totalExperiences"`
	LastUpdated         time.Time `bson:"lastUpdated" json:"lastUpdated"`
}

type MonthTotal struct {
	Month int   `json:"month"`
	Total int64 `json:"total"`
}

type CategoryTotal struct {
	Category string `json:"category"`
	Total    int64  `json:"total"`
}

// MonthlyFinance is one bucket of the merged month series. A month present in
// only one source carries zero for the other.
type MonthlyFinance struct {
	Month     int    `json:"month"`
	MonthName string `json:"monthName"`
	Donations int64  `json:"donations"`
	Expenses  int64  `json:"expenses"`
}

type FinancialOverview struct {
	Months             []MonthlyFinance `json:"months"`
	DonationsByMonth   []MonthTotal     `json:"donationsByMonth"`
	ExpensesByMonth    []MonthTotal     `json:"expensesByMonth"`
	ExpensesByCategory []CategoryTotal  `json:"expensesByCategory"`
}

type AmountTotal struct {
	TotalAmount int64 `json:"totalAmount"`
}
