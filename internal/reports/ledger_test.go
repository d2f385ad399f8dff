package reports

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"structa-system/internal/database/models"
)

func fixtureLedgerInput() LedgerInput {
	return LedgerInput{
		Invoices: []models.Invoice{
			{
				ID: 1, InvoiceNumber: "INV-001", ProjectID: 7,
				Amount: decimal.NewFromInt(1000), Status: models.InvoicePending,
				CreatedAt: day(1),
				Payments: []models.Payment{
					{ID: 1, Amount: decimal.NewFromInt(400), PaymentDate: day(4), Reference: "RCPT-1"},
				},
			},
		},
		VendorBills: []models.VendorBill{
			{
				ID: 1, BillNumber: "VB-001", Amount: decimal.NewFromInt(300),
				Status: models.BillPartial, BillDate: day(2),
				Vendor: models.Vendor{Name: "Apex Steels"},
				VendorPayments: []models.VendorPayment{
					{ID: 1, Amount: decimal.NewFromInt(100), PaymentDate: day(6), Reference: "VP-1"},
				},
			},
		},
		Payrolls: []models.Payroll{
			{
				ID: 1, Month: "2026-03", Status: models.PayrollPaid,
				Lines: []models.PayrollLine{
					{ID: 1, TotalPay: decimal.NewFromInt(200), Employee: models.Employee{Name: "Welder A"}},
				},
			},
		},
		InventoryTxns: []models.InventoryTransaction{
			{
				ID: 1, Type: models.InventoryIssueToProject, Quantity: 2, Date: day(5),
				Item: models.InventoryItem{Name: "Steel plate", CostPrice: decimal.NewFromInt(25)},
			},
			{
				ID: 2, Type: models.InventoryStockIn, Quantity: 1, Date: day(3),
				Item: models.InventoryItem{Name: "Steel plate", CostPrice: decimal.NewFromInt(25)},
			},
			{
				ID: 3, Type: models.InventoryReturn, Quantity: 9, Date: day(3),
				Item: models.InventoryItem{Name: "Steel plate", CostPrice: decimal.NewFromInt(25)},
			},
		},
		Transactions: []models.Transaction{
			{ID: 1, Type: models.TransactionExpense, Category: "site_transport", Amount: decimal.NewFromInt(60), Date: day(7)},
			{ID: 2, Type: models.TransactionIncome, Category: "consulting", Amount: decimal.NewFromInt(80), Date: day(8)},
		},
		BankTxns: []models.BankTransaction{
			{ID: 1, Type: models.BankDeposit, Amount: decimal.NewFromInt(500), Date: day(9), BankAccount: models.BankAccount{Name: "Operating"}},
			{ID: 2, Type: models.BankWithdrawal, Amount: decimal.NewFromInt(120), Date: day(10), BankAccount: models.BankAccount{Name: "Operating"}},
		},
	}
}

func TestAssembleLedger_BalanceArithmetic(t *testing.T) {
	entries, summary := AssembleLedger(fixtureLedgerInput(), LedgerFilter{})

	// debits: invoice 1000 + payment 400 + payroll 200 + COGS 50 +
	// inventory stock_in 25 + manual expense 60 + deposit 500
	wantDebits := 2235.0
	// credits: vendor bill 300 + vendor payment 100 + manual income 80 +
	// withdrawal 120
	wantCredits := 600.0

	if !almostEqual(summary.TotalDebits, wantDebits) {
		t.Errorf("total debits = %v, want %v", summary.TotalDebits, wantDebits)
	}
	if !almostEqual(summary.TotalCredits, wantCredits) {
		t.Errorf("total credits = %v, want %v", summary.TotalCredits, wantCredits)
	}
	if !almostEqual(summary.Balance, wantDebits-wantCredits) {
		t.Errorf("balance = %v, want %v", summary.Balance, wantDebits-wantCredits)
	}
	if summary.EntryCount != len(entries) || summary.EntryCount != 10 {
		t.Errorf("entry count = %d, want 10 (return movements carry no cost)", summary.EntryCount)
	}
}

func TestAssembleLedger_DebitCreditMutuallyExclusive(t *testing.T) {
	entries, _ := AssembleLedger(fixtureLedgerInput(), LedgerFilter{})
	for _, e := range entries {
		if e.Debit != 0 && e.Credit != 0 {
			t.Errorf("entry %s has both debit %v and credit %v", e.ID, e.Debit, e.Credit)
		}
	}
}

func TestAssembleLedger_SortedDescending(t *testing.T) {
	entries, _ := AssembleLedger(fixtureLedgerInput(), LedgerFilter{})
	for i := 1; i < len(entries); i++ {
		if entries[i].Date.After(entries[i-1].Date) {
			t.Fatalf("entries not sorted descending at %d: %v before %v", i, entries[i-1].Date, entries[i].Date)
		}
	}
}

func TestAssembleLedger_PolarityRuleTable(t *testing.T) {
	cases := []struct {
		name      string
		entryType string
		subtype   string
		wantDebit bool
	}{
		{"invoice raises receivable", EntryInvoice, "", true},
		{"customer payment is cash in", EntryPayment, "", true},
		{"vendor bill raises payable", EntryVendorBill, "", false},
		{"vendor payment is cash out", EntryVendorPayment, "", false},
		{"payroll is expense", EntryPayroll, "", true},
		{"issue to project is expense", EntryInventory, models.InventoryIssueToProject, true},
		{"stock in raises inventory asset", EntryInventory, models.InventoryStockIn, true},
		{"manual expense", EntryTransaction, models.TransactionExpense, true},
		{"manual income", EntryTransaction, models.TransactionIncome, false},
		{"bank deposit", EntryBank, models.BankDeposit, true},
		{"bank withdrawal", EntryBank, models.BankWithdrawal, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			gotDebit := sideFor(tc.entryType, tc.subtype) == debitSide
			if gotDebit != tc.wantDebit {
				t.Errorf("sideFor(%s, %s) debit=%v, want %v", tc.entryType, tc.subtype, gotDebit, tc.wantDebit)
			}
		})
	}
}

func TestAssembleLedger_DateFilter(t *testing.T) {
	start := time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 3, 8, 0, 0, 0, 0, time.UTC)

	entries, summary := AssembleLedger(fixtureLedgerInput(), LedgerFilter{StartDate: &start, EndDate: &end})
	for _, e := range entries {
		if e.Date.Before(start) || e.Date.After(end) {
			t.Errorf("entry %s dated %v escaped [%v, %v]", e.ID, e.Date, start, end)
		}
	}
	// COGS issue (3/5), vendor payment (3/6), expense (3/7), income (3/8)
	if summary.EntryCount != 4 {
		t.Errorf("entry count = %d, want 4", summary.EntryCount)
	}
}

func TestAssembleLedger_CategoryFilter(t *testing.T) {
	entries, _ := AssembleLedger(fixtureLedgerInput(), LedgerFilter{Category: "site_transport"})
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(entries))
	}
	if entries[0].Type != EntryTransaction || entries[0].Account != "site_transport" {
		t.Errorf("unexpected entry %+v", entries[0])
	}
}
