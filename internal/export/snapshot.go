package export

import (
	"fmt"

	"github.com/Cedhu-Sog/IT-CEDHU/pkg/models"
)

// Row is one line of the read-only inventory snapshot handed to the document
// generators. Export has no validation or normalization responsibility; it
// renders whatever the store returns.
type Row struct {
	Serial       string
	DeviceType   string
	Brand        string
	Model        string
	Location     string
	State        string
	Quantity     int
	Acquired     string
	Price        float64
	RegisteredBy string
	Description  string
}

const dateLayout = "2006-01-02"

// BuildSnapshot flattens the joined item records into export rows.
func BuildSnapshot(records []models.FlatItemRecord) []Row {
	rows := make([]Row, 0, len(records))
	for _, record := range records {
		row := Row{
			Serial:       "-",
			DeviceType:   record.DeviceTypeName,
			Brand:        record.Brand,
			Model:        record.Model,
			Location:     record.Location,
			State:        record.StateName,
			Quantity:     record.Quantity,
			Acquired:     record.AcquisitionDate.Format(dateLayout),
			RegisteredBy: "anonymous",
			Description:  record.Description,
		}

		if record.Serial != nil {
			row.Serial = *record.Serial
		}
		if record.Price != nil {
			row.Price = *record.Price
		}
		if record.RegistrantEmail != nil {
			row.RegisteredBy = *record.RegistrantEmail
		}
		if row.DeviceType == "" {
			row.DeviceType = "N/A"
		}
		if row.State == "" {
			row.State = "N/A"
		}

		rows = append(rows, row)
	}
	return rows
}

var columnHeaders = []string{
	"SERIAL", "TYPE", "BRAND", "MODEL", "LOCATION", "STATE",
	"QUANTITY", "ACQUIRED", "PRICE", "REGISTERED BY", "DESCRIPTION",
}

func (r Row) cells() []string {
	return []string{
		r.Serial,
		r.DeviceType,
		r.Brand,
		r.Model,
		r.Location,
		r.State,
		fmt.Sprintf("%d", r.Quantity),
		r.Acquired,
		fmt.Sprintf("%.2f", r.Price),
		r.RegisteredBy,
		r.Description,
	}
}
