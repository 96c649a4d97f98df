package model

// Song 歌曲
type Song struct {
	ID     int64  `gorm:"primaryKey;autoIncrement;comment:歌曲标识" json:"id"`
	Title  string `gorm:"size:200;not null;comment:歌名" json:"title"`
	Artist string `gorm:"size:200;not null;comment:歌手" json:"artist"`
	Genre  string `gorm:"size:50;not null;index:idx_songs_genre;comment:流派" json:"genre"`
}

func (Song) TableName() string {
	return "songs"
}
