package core

// Account is one entry of the chart of accounts (PGC classes 1-7) used to
// tag transactions for financial reporting.
type Account struct {
	Code  string `json:"code"`
	Name  string `json:"name"`
	Class string `json:"class"`
}

// TuitionAccountCode identifies monthly school-fee income in the chart.
const TuitionAccountCode = "7.2"

// chartOfAccounts is ordered by code; AccountsFor preserves this order.
var chartOfAccounts = []Account{
	{Code: "1.1", Name: "Caixa", Class: "1"},
	{Code: "1.2", Name: "Bancos", Class: "1"},
	{Code: "2.1", Name: "Material Escolar", Class: "2"},
	{Code: "2.2", Name: "Material de Limpeza", Class: "2"},
	{Code: "2.3", Name: "Uniformes em Stock", Class: "2"},
	{Code: "3.1", Name: "Mobiliário e Equipamento", Class: "3"},
	{Code: "3.2", Name: "Obras e Infraestruturas", Class: "3"},
	{Code: "4.2", Name: "Fornecedores", Class: "4"},
	{Code: "4.4", Name: "Estado - Impostos", Class: "4"},
	{Code: "6.1", Name: "Salários e Remunerações", Class: "6"},
	{Code: "6.2", Name: "Água e Energia", Class: "6"},
	{Code: "6.3", Name: "Comunicações", Class: "6"},
	{Code: "6.4", Name: "Manutenção e Reparação", Class: "6"},
	{Code: "6.5", Name: "Transporte Escolar", Class: "6"},
	{Code: "6.9", Name: "Outros Custos e Perdas", Class: "6"},
	{Code: "7.1", Name: "Taxa de Matrícula", Class: "7"},
	{Code: "7.2", Name: "Mensalidades", Class: "7"},
	{Code: "7.3", Name: "Venda de Uniformes", Class: "7"},
	{Code: "7.9", Name: "Outros Proveitos", Class: "7"},
}

// AccountsFor returns the ordered set of accounts a transaction of the given
// category may be tagged with. Income takes the whole revenue class plus the
// cash and bank accounts (capital injections); expense takes inventory,
// capital investment and cost classes plus the supplier and state payables.
// Any other category yields an empty set.
func AccountsFor(category Category) []Account {
	var classes map[string]bool
	var codes map[string]bool
	switch category {
	case Income:
		classes = map[string]bool{"7": true}
		codes = map[string]bool{"1.1": true, "1.2": true}
	case Expense:
		classes = map[string]bool{"2": true, "3": true, "6": true}
		codes = map[string]bool{"4.2": true, "4.4": true}
	default:
		return nil
	}
	var out []Account
	for _, a := range chartOfAccounts {
		if classes[a.Class] || codes[a.Code] {
			out = append(out, a)
		}
	}
	return out
}

// AccountByCode looks up a single account; ok is false for unknown codes.
func AccountByCode(code string) (Account, bool) {
	for _, a := range chartOfAccounts {
		if a.Code == code {
			return a, true
		}
	}
	return Account{}, false
}

// AccountName returns the display name for a code, or the code itself when
// it is not in the chart. Used to derive a transaction's type label at save
// time so the label and the code never diverge.
func AccountName(code string) string {
	if a, ok := AccountByCode(code); ok {
		return a.Name
	}
	return code
}
