// Package asset tracks upload state for stored objects and brokers
// presigned access to them.
package asset

// Asset is the persisted record for one stored object. The primary key
// doubles as the object storage key (stringified).
type Asset struct {
	AssetID  int64  `gorm:"column:asset_id;primaryKey;autoIncrement" json:"asset_id"`
	Uploaded bool   `gorm:"column:uploaded;not null;default:false" json:"uploaded"`
	URL      string `gorm:"column:url;not null;default:''" json:"-"`
}

// TableName specifies the table name for GORM.
func (Asset) TableName() string {
	return "assets"
}
