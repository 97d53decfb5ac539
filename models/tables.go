package models

type User struct {
	ID           int        `gorm:"primary_key;autoIncrement" json:"id"`
	Name         string     `gorm:"not null" json:"name"`
	Email        string     `gorm:"unique;not null" json:"email"`
	PasswordHash string     `gorm:"not null" json:"-"` // json:"-" prevents password from being exposed in API
	Posts        []BlogPost `gorm:"foreignKey:AuthorID" json:"-"`
	Comments     []Comment  `gorm:"foreignKey:CommenterID" json:"-"`
}

type BlogPost struct {
	ID       int       `gorm:"primary_key;autoIncrement" json:"id"`
	AuthorID int       `gorm:"not null;index" json:"author_id"`
	Author   User      `gorm:"foreignKey:AuthorID" json:"author"`
	Title    string    `gorm:"unique;not null" json:"title"`
	Subtitle string    `gorm:"not null" json:"subtitle"`
	Date     string    `gorm:"not null" json:"date"` // display string "Month DD, YYYY", never re-parsed
	Body     string    `gorm:"type:text;not null" json:"body"`
	ImgURL   string    `gorm:"not null" json:"img_url"`
	Comments []Comment `gorm:"foreignKey:PostID" json:"comments"`
}

type Comment struct {
	ID          int    `gorm:"primary_key;autoIncrement" json:"id"`
	Text        string `gorm:"not null" json:"text"`
	CommenterID int    `gorm:"not null;index" json:"commenter_id"`
	Commenter   User   `gorm:"foreignKey:CommenterID" json:"commenter"`
	PostID      int    `gorm:"not null;index" json:"post_id"`
}
