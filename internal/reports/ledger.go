package reports

import (
	"fmt"
	"sort"
	"time"

	"structa-system/internal/database/models"
)

// Ledger accounts
const (
	AccountReceivable = "AR - Accounts Receivable"
	AccountPayable    = "AP - Accounts Payable"
	AccountCashBank   = "Cash/Bank"
	AccountSalary     = "Salary Expense"
	AccountCOGS       = "COGS"
	AccountInventory  = "Inventory"
)

// Ledger entry source types
const (
	EntryInvoice       = "invoice"
	EntryPayment       = "payment"
	EntryVendorBill    = "vendor_bill"
	EntryVendorPayment = "vendor_payment"
	EntryPayroll       = "payroll"
	EntryInventory     = "inventory"
	EntryTransaction   = "transaction"
	EntryBank          = "bank"
)

type LedgerEntry struct {
	ID          string    `json:"id"`
	Type        string    `json:"type"`
	Account     string    `json:"account"`
	Debit       float64   `json:"debit"`
	Credit      float64   `json:"credit"`
	Date        time.Time `json:"date"`
	Description string    `json:"description"`
	Reference   string    `json:"reference"`
	Entity      string    `json:"entity"`
	Status      string    `json:"status,omitempty"`
}

type LedgerSummary struct {
	TotalDebits  float64 `json:"total_debits"`
	TotalCredits float64 `json:"total_credits"`
	Balance      float64 `json:"balance"`
	EntryCount   int     `json:"entry_count"`
}

type LedgerFilter struct {
	StartDate *time.Time
	EndDate   *time.Time
	Category  string
}

type LedgerInput struct {
	Invoices      []models.Invoice              // Payments preloaded
	VendorBills   []models.VendorBill           // Vendor and VendorPayments preloaded
	Payrolls      []models.Payroll              // Lines with Employee preloaded
	InventoryTxns []models.InventoryTransaction // Item preloaded
	Transactions  []models.Transaction
	BankTxns      []models.BankTransaction // BankAccount preloaded
}

type entrySide int

const (
	debitSide entrySide = iota
	creditSide
)

// sideFor is the single polarity rule: a movement that increases an asset or
// an expense account is a debit; one that decreases an asset or increases a
// liability or income account is a credit. Every source kind maps through it.
func sideFor(entryType, subtype string) entrySide {
	switch entryType {
	case EntryInvoice: // receivable asset up
		return debitSide
	case EntryPayment: // cash in
		return debitSide
	case EntryVendorBill: // payable liability up
		return creditSide
	case EntryVendorPayment: // cash out
		return creditSide
	case EntryPayroll: // expense up
		return debitSide
	case EntryInventory:
		if subtype == models.InventoryStockIn {
			return debitSide // inventory asset up
		}
		return debitSide // COGS expense up
	case EntryTransaction:
		if subtype == models.TransactionExpense {
			return debitSide
		}
		return creditSide // income up
	case EntryBank:
		if subtype == models.BankDeposit {
			return debitSide
		}
		return creditSide
	}
	return debitSide
}

func makeEntry(entryType, subtype, account string, amount float64, date time.Time, id int64, desc, ref, entity, status string) LedgerEntry {
	e := LedgerEntry{
		ID:          fmt.Sprintf("%s-%d", entryType, id),
		Type:        entryType,
		Account:     account,
		Date:        date,
		Description: desc,
		Reference:   ref,
		Entity:      entity,
		Status:      status,
	}
	if sideFor(entryType, subtype) == debitSide {
		e.Debit = amount
	} else {
		e.Credit = amount
	}
	return e
}

// AssembleLedger merges every financial movement into one normalized,
// date-descending list with running totals. The merged view is always
// computed fresh; nothing is persisted.
func AssembleLedger(in LedgerInput, filter LedgerFilter) ([]LedgerEntry, LedgerSummary) {
	entries := make([]LedgerEntry, 0,
		len(in.Invoices)+len(in.VendorBills)+len(in.Transactions)+len(in.BankTxns))

	for _, inv := range in.Invoices {
		entries = append(entries, makeEntry(
			EntryInvoice, "", AccountReceivable,
			inv.Amount.InexactFloat64(), derefTime(inv.CreatedAt),
			inv.ID, fmt.Sprintf("Invoice %s", inv.InvoiceNumber),
			inv.InvoiceNumber, fmt.Sprintf("project-%d", inv.ProjectID), inv.Status))

		for _, p := range inv.Payments {
			entries = append(entries, makeEntry(
				EntryPayment, "", AccountCashBank,
				p.Amount.InexactFloat64(), derefTime(p.PaymentDate),
				p.ID, fmt.Sprintf("Payment for invoice %s", inv.InvoiceNumber),
				p.Reference, fmt.Sprintf("project-%d", inv.ProjectID), ""))
		}
	}

	for _, bill := range in.VendorBills {
		entries = append(entries, makeEntry(
			EntryVendorBill, "", AccountPayable,
			bill.Amount.InexactFloat64(), derefTime(bill.BillDate),
			bill.ID, fmt.Sprintf("Vendor bill %s", bill.BillNumber),
			bill.BillNumber, bill.Vendor.Name, bill.Status))

		for _, vp := range bill.VendorPayments {
			entries = append(entries, makeEntry(
				EntryVendorPayment, "", AccountCashBank,
				vp.Amount.InexactFloat64(), derefTime(vp.PaymentDate),
				vp.ID, fmt.Sprintf("Payment for bill %s", bill.BillNumber),
				vp.Reference, bill.Vendor.Name, ""))
		}
	}

	for _, payroll := range in.Payrolls {
		payrollDate := monthStart(payroll.Month)
		for _, line := range payroll.Lines {
			entries = append(entries, makeEntry(
				EntryPayroll, "", AccountSalary,
				line.TotalPay.InexactFloat64(), payrollDate,
				line.ID, fmt.Sprintf("Payroll %s - %s", payroll.Month, line.Employee.Name),
				payroll.Month, line.Employee.Name, payroll.Status))
		}
	}

	for _, txn := range in.InventoryTxns {
		account := ""
		switch txn.Type {
		case models.InventoryIssueToProject:
			account = AccountCOGS
		case models.InventoryStockIn:
			account = AccountInventory
		default:
			continue
		}
		entries = append(entries, makeEntry(
			EntryInventory, txn.Type, account,
			txn.Item.CostPrice.InexactFloat64()*txn.Quantity, derefTime(txn.Date),
			txn.ID, fmt.Sprintf("%s %s x%.2f", txn.Type, txn.Item.Name, txn.Quantity),
			txn.ReferenceNo, txn.Item.Name, ""))
	}

	for _, t := range in.Transactions {
		entries = append(entries, makeEntry(
			EntryTransaction, t.Type, t.Category,
			t.Amount.InexactFloat64(), derefTime(t.Date),
			t.ID, t.Description, t.Reference, t.Category, ""))
	}

	for _, bt := range in.BankTxns {
		entries = append(entries, makeEntry(
			EntryBank, bt.Type, "Bank - "+bt.BankAccount.Name,
			bt.Amount.InexactFloat64(), derefTime(bt.Date),
			bt.ID, bt.Description, bt.Reference, bt.BankAccount.Name, ""))
	}

	entries = applyLedgerFilter(entries, filter)

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Date.After(entries[j].Date)
	})

	var summary LedgerSummary
	for _, e := range entries {
		summary.TotalDebits += e.Debit
		summary.TotalCredits += e.Credit
	}
	summary.Balance = summary.TotalDebits - summary.TotalCredits
	summary.EntryCount = len(entries)

	return entries, summary
}

func applyLedgerFilter(entries []LedgerEntry, filter LedgerFilter) []LedgerEntry {
	if filter.StartDate == nil && filter.EndDate == nil && filter.Category == "" {
		return entries
	}
	out := entries[:0]
	for _, e := range entries {
		if filter.StartDate != nil && e.Date.Before(*filter.StartDate) {
			continue
		}
		if filter.EndDate != nil && e.Date.After(*filter.EndDate) {
			continue
		}
		if filter.Category != "" && e.Account != filter.Category {
			continue
		}
		out = append(out, e)
	}
	return out
}

func monthStart(month string) time.Time {
	t, err := time.Parse("2006-01", month)
	if err != nil {
		return time.Time{}
	}
	return t
}

func derefTime(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}
