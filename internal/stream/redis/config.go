package redis

type StreamConfig struct {
	Addr         string
	Password     string
	Stream       string
	Group        string
	ConsumerName string
}

func NewStreamConfig(addr string, password string, stream string, group string, consumerName string) *StreamConfig {
	return &StreamConfig{
		Addr:         addr,
		Password:     password,
		Stream:       stream,
		Group:        group,
		ConsumerName: consumerName,
	}
}
