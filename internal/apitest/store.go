package apitest

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type clientRow struct {
	ID    uint `gorm:"primaryKey"`
	Name  string
	Phone string
	Nit   string
}

func (clientRow) TableName() string { return "clients" }

type proformaRow struct {
	ID         uint `gorm:"primaryKey"`
	ClientID   uint
	Client     clientRow `gorm:"foreignKey:ClientID"`
	VehicleRef string
	Driver     string
	Total      string
	Status     string `gorm:"default:PENDING"`
	CreatedAt  time.Time
	Items      []itemRow `gorm:"foreignKey:ProformaID"`
}

func (proformaRow) TableName() string { return "proformas" }

type itemRow struct {
	ID          uint `gorm:"primaryKey"`
	ProformaID  uint
	Description string
	Quantity    int
	UnitPrice   string
}

func (itemRow) TableName() string { return "proforma_items" }

var errNotFound = errors.New("not found")

type store struct {
	db *gorm.DB
}

func (s *store) migrate() error {
	return s.db.AutoMigrate(&clientRow{}, &proformaRow{}, &itemRow{})
}

func (s *store) searchClients(name string) ([]clientRow, error) {
	var rows []clientRow
	q := s.db.Order("id")
	if name = strings.TrimSpace(name); name != "" {
		q = q.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(name)+"%")
	}
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *store) createClient(name, phone, nit string) (clientRow, error) {
	row := clientRow{Name: name, Phone: phone, Nit: nit}
	if err := s.db.Create(&row).Error; err != nil {
		return clientRow{}, err
	}
	return row, nil
}

type itemArg struct {
	Description string `json:"description"`
	Quantity    int    `json:"quantity"`
	UnitPrice   string `json:"unitPrice"`
}

func (s *store) createProforma(clientID uint, vehicleRef, driver string, items []itemArg, createdAt time.Time) (proformaRow, error) {
	var row proformaRow
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var client clientRow
		if err := tx.First(&client, clientID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errors.New("Client matching query does not exist.")
			}
			return err
		}

		total := decimal.Zero
		rows := make([]itemRow, 0, len(items))
		for _, it := range items {
			price, err := decimal.NewFromString(it.UnitPrice)
			if err != nil {
				return fmt.Errorf("invalid unit price %q", it.UnitPrice)
			}
			total = total.Add(price.Mul(decimal.NewFromInt(int64(it.Quantity))))
			rows = append(rows, itemRow{
				Description: it.Description,
				Quantity:    it.Quantity,
				UnitPrice:   price.StringFixed(2),
			})
		}

		row = proformaRow{
			ClientID:   client.ID,
			Client:     client,
			VehicleRef: vehicleRef,
			Driver:     driver,
			Total:      total.StringFixed(2),
			Status:     "PENDING",
			CreatedAt:  createdAt,
			Items:      rows,
		}
		return tx.Omit("Client").Create(&row).Error
	})
	return row, err
}

func (s *store) listProformas(search string) ([]proformaRow, error) {
	var rows []proformaRow
	q := s.db.Preload("Client").Order("created_at DESC").Order("proformas.id DESC")
	if search = strings.ToLower(strings.TrimSpace(search)); search != "" {
		like := "%" + search + "%"
		q = q.Joins("JOIN clients ON clients.id = proformas.client_id").
			Where("LOWER(clients.name) LIKE ? OR LOWER(proformas.vehicle_ref) LIKE ?", like, like)
	}
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *store) getProforma(id uint) (proformaRow, error) {
	var row proformaRow
	err := s.db.Preload("Client").Preload("Items", func(db *gorm.DB) *gorm.DB {
		return db.Order("id")
	}).First(&row, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return row, errNotFound
	}
	return row, err
}

func (s *store) updateStatus(id uint, status string) (proformaRow, error) {
	res := s.db.Model(&proformaRow{}).Where("id = ?", id).Update("status", status)
	if res.Error != nil {
		return proformaRow{}, res.Error
	}
	if res.RowsAffected == 0 {
		return proformaRow{}, errNotFound
	}
	return s.getProforma(id)
}
