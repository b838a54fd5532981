package database

import (
	"fmt"
	"time"

	"menupick-admin-worker/models"
	"menupick-admin-worker/structs"

	"github.com/jinzhu/gorm"
	_ "github.com/jinzhu/gorm/dialects/mysql"
)

// InitDatabasePool 建立 mysql 連線池
func InitDatabasePool(config *structs.EnviromentModel) (*gorm.DB, error) {
	db := config.Database
	client := db.Client
	if client == "" {
		client = "mysql"
	}
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?%s", db.User, db.Password, db.Host, db.Port, db.Db, db.Params)

	conn, err := gorm.Open(client, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", client, err)
	}

	if db.MaxIdle > 0 {
		conn.DB().SetMaxIdleConns(int(db.MaxIdle))
	}
	if db.MaxOpenConn > 0 {
		conn.DB().SetMaxOpenConns(int(db.MaxOpenConn))
	}
	if db.MaxLifeTime != "" {
		lifeTime, err := time.ParseDuration(db.MaxLifeTime)
		if err != nil {
			conn.Close()
			return nil, fmt.Errorf("invalid database.max_life_time %q: %w", db.MaxLifeTime, err)
		}
		conn.DB().SetConnMaxLifetime(lifeTime)
	}
	conn.LogMode(db.LogEnable == 1)

	return conn, nil
}

// Migrate 建立 worker 用到的資料表
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.MealItem{},
		&models.Student{},
		&models.PreferenceSnapshot{},
		&models.Feedback{},
		&models.ActivityLog{},
	).Error
}
