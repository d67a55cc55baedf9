package productstore

import "github.com/Aleph-Alpha/storemanager/v1/model"

// tableName is the relational table backing the DAO.
const tableName = "products"

// productRow is the gorm mapping of the products table.
type productRow struct {
	ID    int64   `gorm:"column:id;primaryKey;autoIncrement"`
	Name  string  `gorm:"column:name;type:varchar(255);not null"`
	Brand string  `gorm:"column:brand;type:varchar(255);not null"`
	Price float64 `gorm:"column:price;type:decimal(10,2);not null"`
}

// TableName implements gorm's tabler interface.
func (productRow) TableName() string {
	return tableName
}

func toRow(p model.Product) productRow {
	return productRow{ID: p.ID, Name: p.Name, Brand: p.Brand, Price: p.Price}
}

func (r productRow) toModel() model.Product {
	return model.Product{ID: r.ID, Name: r.Name, Brand: r.Brand, Price: r.Price}
}
