package suppliers

import (
	"strings"

	"github.com/balcao/balcao/internal/masterdata/shared"
)

func normalize(form SupplierForm) (Supplier, error) {
	s := Supplier{
		Name:     strings.TrimSpace(form.Name),
		CNPJ:     digitsOnly(form.CNPJ),
		Email:    strings.ToLower(strings.TrimSpace(form.Email)),
		Phone:    strings.TrimSpace(form.Phone),
		Address:  strings.TrimSpace(form.Address),
		Contact:  strings.TrimSpace(form.Contact),
		IsActive: true,
	}
	if form.IsActive != nil {
		s.IsActive = *form.IsActive
	}
	if err := shared.RequireText(map[string]string{"nome": s.Name}); err != nil {
		return Supplier{}, err
	}
	if err := shared.ValidateDocument("cnpj", s.CNPJ, 14); err != nil {
		return Supplier{}, err
	}
	return s, nil
}

func digitsOnly(v string) string {
	var b strings.Builder
	for _, r := range v {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
