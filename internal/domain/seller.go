package domain

// Seller é o vendedor do marketplace. Name vem nulo quando a coluna não foi
// preenchida.
type Seller struct {
	ID   int64   `json:"id"`
	Name *string `json:"name"`
}

// DisplayName devolve o nome cadastrado ou string vazia
func (s *Seller) DisplayName() string {
	if s == nil || s.Name == nil {
		return ""
	}
	return *s.Name
}
