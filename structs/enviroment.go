package structs

import "menupick-admin-worker/services/taxonomy"

type EnviromentModel struct {
	Database database
	Store    store
	Mongo    mongo
	RabbitMQ rabbitmq
	Log      log
	Server   server
	Router   router
	Taxonomy []taxonomy.Entry
}

type server struct {
	AppAPI string
}

type database struct {
	Client      string
	MaxIdle     uint
	MaxLifeTime string
	MaxOpenConn uint
	User        string
	Password    string
	Host        string
	Db          string
	Params      string
	Port        string
	LogEnable   int
}

type store struct {
	Backend string
	Root    string
}

type mongo struct {
	URI      string
	Database string
}

type rabbitmq struct {
	Domain string
}

type log struct {
	Dir            string
	ElkEnable      int
	ElkIndex       string
	ElkURL         string
	LogstashEnable int
	LogstashURL    string
	LogstashIndex  string
}

type router struct {
	Port int
}
