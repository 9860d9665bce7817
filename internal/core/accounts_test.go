package core

import "testing"

func TestAccountsForNonEmptyAndUnique(t *testing.T) {
	for _, cat := range []Category{Income, Expense} {
		accounts := AccountsFor(cat)
		if len(accounts) == 0 {
			t.Fatalf("AccountsFor(%s) is empty", cat)
		}
		seen := map[string]bool{}
		for _, a := range accounts {
			if seen[a.Code] {
				t.Fatalf("AccountsFor(%s): duplicate code %s", cat, a.Code)
			}
			seen[a.Code] = true
		}
	}
}

func TestAccountsForDisjoint(t *testing.T) {
	income := map[string]bool{}
	for _, a := range AccountsFor(Income) {
		income[a.Code] = true
	}
	for _, a := range AccountsFor(Expense) {
		if income[a.Code] {
			t.Fatalf("code %s appears under both categories", a.Code)
		}
	}
}

func TestAccountsForIncomeContents(t *testing.T) {
	accounts := AccountsFor(Income)
	byCode := map[string]Account{}
	for _, a := range accounts {
		byCode[a.Code] = a
	}
	// Cash and bank accounts are selectable for capital injections.
	for _, code := range []string{"1.1", "1.2", TuitionAccountCode} {
		if _, ok := byCode[code]; !ok {
			t.Fatalf("income accounts missing %s", code)
		}
	}
	for _, a := range accounts {
		if a.Class != "7" && a.Code != "1.1" && a.Code != "1.2" {
			t.Fatalf("unexpected income account %s (class %s)", a.Code, a.Class)
		}
	}
}

func TestAccountsForExpenseContents(t *testing.T) {
	accounts := AccountsFor(Expense)
	byCode := map[string]Account{}
	for _, a := range accounts {
		byCode[a.Code] = a
	}
	for _, code := range []string{"4.2", "4.4"} {
		if _, ok := byCode[code]; !ok {
			t.Fatalf("expense accounts missing %s", code)
		}
	}
	for _, a := range accounts {
		switch a.Class {
		case "2", "3", "6":
		default:
			if a.Code != "4.2" && a.Code != "4.4" {
				t.Fatalf("unexpected expense account %s (class %s)", a.Code, a.Class)
			}
		}
	}
}

func TestAccountsForEmptyCategory(t *testing.T) {
	if got := AccountsFor(""); got != nil {
		t.Fatalf("AccountsFor(\"\") = %v, want nil", got)
	}
}

func TestAccountName(t *testing.T) {
	if got := AccountName(TuitionAccountCode); got != "Mensalidades" {
		t.Fatalf("AccountName(7.2) = %q", got)
	}
	if got := AccountName("9.9"); got != "9.9" {
		t.Fatalf("unknown code should echo back, got %q", got)
	}
}
