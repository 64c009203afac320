package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Profile is the application user tied to an external identity
type Profile struct {
	ID          string    `gorm:"primaryKey;size:36" json:"id"`
	IdentityRef string    `gorm:"uniqueIndex;not null" json:"identityRef"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	ImageURL    string    `json:"imageUrl"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (p *Profile) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

// DesignSystem is a named theme. At most one per profile is active;
// the partial unique index enforces it in the database.
type DesignSystem struct {
	ID                string    `gorm:"primaryKey;size:36" json:"id"`
	Name              string    `gorm:"not null" json:"name"`
	PrimaryColor      string    `json:"primaryColor"`
	SecondaryColor    string    `json:"secondaryColor"`
	BackgroundColor   string    `json:"backgroundColor"`
	AccentColor       string    `json:"accentColor"`
	TextPrimary       string    `json:"textPrimary"`
	TextAccentColor   string    `json:"textAccentColor"`
	OverlayBackground string    `json:"overlayBackground"`
	OverlayBorder     string    `json:"overlayBorder"`
	EditorBackground  string    `json:"editorBackground"`
	PrimaryFont       string    `json:"primaryFont"`
	SecondaryFont     string    `json:"secondaryFont"`
	IsActive          bool      `gorm:"not null;default:false" json:"isActive"`
	ProfileID         string    `gorm:"size:36;not null;index;uniqueIndex:idx_design_systems_one_active,where:is_active = true" json:"profileId"`
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

func (d *DesignSystem) BeforeCreate(tx *gorm.DB) error {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	return nil
}

// Note is a document or, with IsFolder set, a container of other notes
type Note struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	Title     string    `gorm:"not null" json:"title"`
	Content   string    `gorm:"type:text" json:"content"`
	IsFolder  bool      `gorm:"not null;default:false" json:"isFolder"`
	ParentID  *string   `gorm:"size:36;index" json:"parentId"`
	Parent    *Note     `gorm:"foreignKey:ParentID;constraint:OnDelete:SET NULL" json:"-"`
	ProfileID string    `gorm:"size:36;not null;index" json:"profileId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (n *Note) BeforeCreate(tx *gorm.DB) error {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	return nil
}

// FontFile is the metadata row of an uploaded font
type FontFile struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	Name      string    `gorm:"not null" json:"name"`
	FileName  string    `gorm:"not null" json:"fileName"`
	FileURL   string    `gorm:"not null" json:"fileUrl"`
	ProfileID string    `gorm:"size:36;not null;index" json:"profileId"`
	CreatedAt time.Time `json:"createdAt"`
}

func (f *FontFile) BeforeCreate(tx *gorm.DB) error {
	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	return nil
}
