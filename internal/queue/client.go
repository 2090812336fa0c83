package queue

import (
	"fmt"
	"strings"
	"time"

	"github.com/studizen-api/internal/config"
	"github.com/studizen-api/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// DefaultQueue 默认队列名称
	DefaultQueue = constants.QueueDefault
)

// Client 队列客户端封装
type Client struct {
	client       *asynq.Client
	inspector    *asynq.Inspector
	enabled      bool
	defaultQueue string
}

// NewClient 创建队列客户端
func NewClient(cfg *config.QueueConfig) (*Client, error) {
	if cfg == nil || !cfg.Enabled {
		return &Client{enabled: false, defaultQueue: DefaultQueue}, nil
	}
	opt := buildRedisOpt(cfg)
	client := asynq.NewClient(opt)
	inspector := asynq.NewInspector(opt)
	return &Client{
		client:       client,
		inspector:    inspector,
		enabled:      true,
		defaultQueue: DefaultQueue,
	}, nil
}

// Enabled 判断是否启用
func (c *Client) Enabled() bool {
	return c != nil && c.enabled && c.client != nil
}

// Close 关闭客户端
func (c *Client) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}

// EnqueueTaskReminderEmail 推送任务提醒邮件任务（延迟到提醒时刻执行），返回队列任务ID
func (c *Client) EnqueueTaskReminderEmail(payload TaskReminderEmailPayload, delay time.Duration) (string, error) {
	if !c.Enabled() {
		return "", nil
	}
	if delay < 0 {
		delay = 0
	}
	task, err := NewTaskReminderEmailTask(payload)
	if err != nil {
		return "", err
	}
	options := []asynq.Option{asynq.Queue(c.defaultQueue), asynq.ProcessIn(delay)}
	info, err := c.client.Enqueue(task, options...)
	if err != nil {
		return "", err
	}
	return info.ID, nil
}

// EnqueueSubscriptionExpire 推送订阅到期任务（延迟到到期时刻执行）
func (c *Client) EnqueueSubscriptionExpire(payload SubscriptionExpirePayload, delay time.Duration) error {
	if !c.Enabled() {
		return nil
	}
	if delay < 0 {
		delay = 0
	}
	task, err := NewSubscriptionExpireTask(payload)
	if err != nil {
		return err
	}
	options := []asynq.Option{asynq.Queue(c.defaultQueue), asynq.ProcessIn(delay)}
	_, err = c.client.Enqueue(task, options...)
	return err
}

// CancelScheduled 取消尚未执行的延迟任务（任务已出队时忽略错误）
func (c *Client) CancelScheduled(taskID string) error {
	if !c.Enabled() || c.inspector == nil {
		return nil
	}
	trimmed := strings.TrimSpace(taskID)
	if trimmed == "" {
		return nil
	}
	err := c.inspector.DeleteTask(c.defaultQueue, trimmed)
	if err == asynq.ErrTaskNotFound || err == asynq.ErrQueueNotFound {
		return nil
	}
	return err
}

// BuildServerConfig 生成队列服务配置
func BuildServerConfig(cfg *config.QueueConfig) (asynq.RedisClientOpt, asynq.Config) {
	opt := buildRedisOpt(cfg)
	concurrency := 10
	if cfg != nil && cfg.Concurrency > 0 {
		concurrency = cfg.Concurrency
	}
	queues := map[string]int{DefaultQueue: 1}
	if cfg != nil && len(cfg.Queues) > 0 {
		queues = cfg.Queues
	}
	return opt, asynq.Config{
		Concurrency: concurrency,
		Queues:      queues,
	}
}

func buildRedisOpt(cfg *config.QueueConfig) asynq.RedisClientOpt {
	host := "127.0.0.1"
	port := 6379
	password := ""
	db := 0
	if cfg != nil {
		if strings.TrimSpace(cfg.Host) != "" {
			host = strings.TrimSpace(cfg.Host)
		}
		if cfg.Port > 0 {
			port = cfg.Port
		}
		password = cfg.Password
		db = cfg.DB
	}
	return asynq.RedisClientOpt{
		Addr:     fmt.Sprintf("%s:%d", host, port),
		Password: password,
		DB:       db,
	}
}
