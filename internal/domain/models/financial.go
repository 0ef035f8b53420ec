package models

import "go.mongodb.org/mongo-driver/bson"

// FinancialDoc is a raw financial statement document.
type FinancialDoc = bson.M

// FinancialKind names a financial collection.
type FinancialKind string

const (
	FinCashflow          FinancialKind = "cashflow"
	FinIncome            FinancialKind = "income"
	FinBalance           FinancialKind = "balance"
	FinIndicator         FinancialKind = "indicator"
	FinDailyBasic        FinancialKind = "daily_basic"
	FinIndexConstituents FinancialKind = "index_constituents"
)
