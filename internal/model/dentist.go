package model

// Clinic клиника, в которой принимает врач
type Clinic struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	City string `json:"city"`
}

// Service услуга врача
type Service struct {
	ID    int64   `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

// PriceRange диапазон цен врача
type PriceRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

type Dentist struct {
	ID         int64      `json:"id"`
	Name       string     `json:"name"`
	Email      string     `json:"email"`
	Phone      string     `json:"phone"`
	PriceRange PriceRange `json:"priceRange"`
	Clinic     Clinic     `json:"clinic"`
	Services   []Service  `json:"services"`
}

// ServiceByID ищет услугу врача по ID
func (d *Dentist) ServiceByID(id int64) (*Service, bool) {
	for i := range d.Services {
		if d.Services[i].ID == id {
			return &d.Services[i], true
		}
	}
	return nil, false
}
