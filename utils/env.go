package utils

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"menupick-admin-worker/enums"
	"menupick-admin-worker/services/taxonomy"
	"menupick-admin-worker/structs"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const defaultCatalogRoot = "meals"

type EnvService struct {
	// ConfigFile 指定設定檔，空字串時找工作目錄下的 config.yml
	ConfigFile string
}

func (e *EnvService) InitEnv() (*structs.EnviromentModel, error) {
	if err := e.loadConfig(); err != nil {
		return nil, err
	}
	return e.configToModel()
}

func (e *EnvService) loadConfig() error {
	// .env 不存在不算錯誤
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to load .env: %w", err)
	}

	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if e.ConfigFile != "" {
		viper.SetConfigFile(e.ConfigFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yml")
		viper.AddConfigPath(".")
	}
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {

			// 找不到 config.yml 的話就抓取環境變數
			return nil
		}

		// 有找到 config.yml 但是發生了其他未知的錯誤
		return fmt.Errorf("fatal error config file: %w", err)
	}
	return nil
}

func (e *EnvService) configToModel() (*structs.EnviromentModel, error) {
	var config structs.EnviromentModel
	config.Database.Client = viper.GetString("database.client")
	config.Database.Host = viper.GetString("database.host")
	config.Database.User = viper.GetString("database.user")
	config.Database.Password = viper.GetString("database.password")
	config.Database.Db = viper.GetString("database.name")
	config.Database.MaxIdle = uint(viper.GetInt("database.max_idle"))
	config.Database.MaxOpenConn = uint(viper.GetInt("database.max_open_conn"))
	config.Database.MaxLifeTime = viper.GetString("database.max_life_time")
	config.Database.Params = viper.GetString("database.params")
	config.Database.Port = viper.GetString("database.port")
	config.Database.LogEnable = viper.GetInt("database.log_enable")
	config.Store.Backend = viper.GetString("store.backend")
	config.Store.Root = viper.GetString("store.root")
	config.Mongo.URI = viper.GetString("mongo.uri")
	config.Mongo.Database = viper.GetString("mongo.database")
	config.RabbitMQ.Domain = viper.GetString("rabbitmq.domain")
	config.Log.Dir = viper.GetString("log.dir")
	config.Log.ElkEnable = viper.GetInt("log.elk.enable")
	config.Log.ElkIndex = viper.GetString("log.elk.index")
	config.Log.ElkURL = viper.GetString("log.elk.url")
	config.Log.LogstashEnable = viper.GetInt("log.logstash.enable")
	config.Log.LogstashURL = viper.GetString("log.logstash.url")
	config.Log.LogstashIndex = viper.GetString("log.logstash.index")
	config.Server.AppAPI = viper.GetString("server.app_api")
	config.Router.Port = viper.GetInt("router.port")

	if config.Store.Backend == "" {
		config.Store.Backend = enums.StoreGorm
	}
	if config.Store.Backend != enums.StoreGorm && config.Store.Backend != enums.StoreMongo {
		return nil, fmt.Errorf("unknown store.backend %q", config.Store.Backend)
	}
	if config.Store.Root == "" {
		config.Store.Root = defaultCatalogRoot
	}
	if config.Router.Port == 0 {
		config.Router.Port = 8080
	}

	if err := viper.UnmarshalKey("taxonomy", &config.Taxonomy); err != nil {
		return nil, fmt.Errorf("invalid taxonomy config: %w", err)
	}
	return &config, nil
}

// BuildTaxonomy 沒有設定 taxonomy 時使用預設表
func BuildTaxonomy(config *structs.EnviromentModel) (*taxonomy.Table, error) {
	if len(config.Taxonomy) == 0 {
		return taxonomy.Default(), nil
	}
	return taxonomy.New(config.Taxonomy)
}
