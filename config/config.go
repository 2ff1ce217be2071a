/*
Copyright 2025 AllThrive Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package config

import (
	"encoding/json"
	"errors"
	"log"
	"os"
	"strings"
	"sync/atomic"

	"github.com/kelseyhightower/envconfig"

	"github.com/sirupsen/logrus"
)

const (
	DEFAULT_PORT = "5001"
)

var ConfigStore atomic.Value

type ServerConfig struct {
	SSL       bool   `json:"ssl" envconfig:"ALLTHRIVE_SERVER_SSL"`
	Secure    bool   `json:"secure" envconfig:"ALLTHRIVE_SERVER_SECURE"`
	SecretKey string `json:"secret_key" envconfig:"ALLTHRIVE_SERVER_SECRET_KEY"`
	Domain    string `json:"domain" envconfig:"ALLTHRIVE_SERVER_SSL_DOMAIN"`
	Email     string `json:"ssl_email" envconfig:"ALLTHRIVE_SERVER_SSL_EMAIL"`
	Port      string `json:"port" envconfig:"ALLTHRIVE_SERVER_PORT"`
}

type DataSourceConfig struct {
	Dns string `json:"dns" envconfig:"ALLTHRIVE_DATA_SOURCE_DNS"`
}

type RedisConfig struct {
	Dns           string `json:"dns" envconfig:"ALLTHRIVE_REDIS_DNS"`
	SkipTLSVerify bool   `json:"skip_tls_verify" envconfig:"ALLTHRIVE_REDIS_SKIP_TLS_VERIFY"`
}

type TypeSenseConfig struct {
	Dns string `json:"dns" envconfig:"ALLTHRIVE_TYPESENSE_DNS"`
}

type QueueConfig struct {
	NotificationQueue string `json:"notification_queue" envconfig:"ALLTHRIVE_QUEUE_NOTIFICATION"`
	WebhookQueue      string `json:"webhook_queue" envconfig:"ALLTHRIVE_QUEUE_WEBHOOK"`
	IndexQueue        string `json:"index_queue" envconfig:"ALLTHRIVE_QUEUE_INDEX"`
	PointsQueue       string `json:"points_queue" envconfig:"ALLTHRIVE_QUEUE_POINTS"`
	MonitoringPort    string `json:"monitoring_port" envconfig:"ALLTHRIVE_QUEUE_MONITORING_PORT"`
}

type RateLimitConfig struct {
	RequestsPerSecond  *float64 `json:"requests_per_second" envconfig:"ALLTHRIVE_RATE_LIMIT_RPS"`
	Burst              *int     `json:"burst" envconfig:"ALLTHRIVE_RATE_LIMIT_BURST"`
	CleanupIntervalSec *int     `json:"cleanup_interval_sec" envconfig:"ALLTHRIVE_RATE_LIMIT_CLEANUP_INTERVAL_SEC"`
}

type SlackWebhook struct {
	WebhookUrl string `json:"webhook_url"`
}

type SMSConfig struct {
	AccountSID string `json:"account_sid" envconfig:"ALLTHRIVE_SMS_ACCOUNT_SID"`
	AuthToken  string `json:"auth_token" envconfig:"ALLTHRIVE_SMS_AUTH_TOKEN"`
	FromNumber string `json:"from_number" envconfig:"ALLTHRIVE_SMS_FROM_NUMBER"`
	BaseURL    string `json:"base_url" envconfig:"ALLTHRIVE_SMS_BASE_URL"`
	DailyLimit int    `json:"daily_limit" envconfig:"ALLTHRIVE_SMS_DAILY_LIMIT"`
}

type Notification struct {
	Slack   SlackWebhook `json:"slack"`
	SMS     SMSConfig    `json:"sms"`
	Webhook struct {
		Url     string            `json:"url"`
		Headers map[string]string `json:"headers"`
	} `json:"webhook"`
}

type Configuration struct {
	ProjectName     string           `json:"project_name" envconfig:"ALLTHRIVE_PROJECT_NAME"`
	EnableTelemetry bool             `json:"enable_telemetry" envconfig:"ALLTHRIVE_ENABLE_TELEMETRY"`
	Server          ServerConfig     `json:"server"`
	DataSource      DataSourceConfig `json:"data_source"`
	Redis           RedisConfig      `json:"redis"`
	TypeSense       TypeSenseConfig  `json:"typesense"`
	TypeSenseKey    string           `json:"type_sense_key"`
	Queue           QueueConfig      `json:"queue"`
	Notification    Notification     `json:"notification"`
	RateLimit       RateLimitConfig  `json:"rate_limit"`
}

func loadConfigFromFile(file string) error {
	var cnf Configuration
	_, err := os.Stat(file)
	if err == nil {
		f, err := os.Open(file)
		if err != nil {
			return err
		}
		err = json.NewDecoder(f).Decode(&cnf)
		if err != nil {
			return err
		}

	} else if errors.Is(err, os.ErrNotExist) {
		log.Println("config json not passed, will use env variables")
	}

	// override config from environment variables
	err = envconfig.Process("allthrive", &cnf)
	if err != nil {
		return err
	}

	err = cnf.validateAndAddDefaults()
	if err != nil {
		return err
	}

	ConfigStore.Store(&cnf)
	return err
}

func InitConfig(configFile string) error {
	logger()
	return loadConfigFromFile(configFile)
}

func Fetch() (*Configuration, error) {
	config := ConfigStore.Load()
	c, ok := config.(*Configuration)
	if !ok {
		return nil, errors.New("config not loaded from file. Create a json file called allthrive.json with your config ❌")
	}
	return c, nil
}

func (cnf *Configuration) validateAndAddDefaults() error {
	if cnf.ProjectName == "" {
		log.Println("Warning: Project name is empty. Setting a default name.")
		cnf.ProjectName = "AllThrive Server"
	}

	if cnf.TypeSense.Dns == "" {
		cnf.TypeSense.Dns = "http://typesense:8108"
	}

	if cnf.DataSource.Dns == "" {
		log.Println("Error: Data source DNS is empty. It's a required field.")
		return errors.New("data source DNS is required")
	}

	if cnf.Redis.Dns == "" {
		log.Println("Error: Redis DNS is empty. It's a required field.")
		return errors.New("redis DNS is required")
	}

	// Trim white spaces from fields
	cnf.ProjectName = strings.TrimSpace(cnf.ProjectName)
	cnf.Server.Port = strings.TrimSpace(cnf.Server.Port)
	cnf.DataSource.Dns = strings.TrimSpace(cnf.DataSource.Dns)
	cnf.Redis.Dns = strings.TrimSpace(cnf.Redis.Dns)

	// Set default value for Port if it's empty
	if cnf.Server.Port == "" {
		cnf.Server.Port = DEFAULT_PORT
		log.Printf("Warning: Port not specified in config. Setting default port: %s", DEFAULT_PORT)
	}

	if cnf.Queue.NotificationQueue == "" {
		cnf.Queue.NotificationQueue = "notification:sms"
	}
	if cnf.Queue.WebhookQueue == "" {
		cnf.Queue.WebhookQueue = "new:webhook"
	}
	if cnf.Queue.IndexQueue == "" {
		cnf.Queue.IndexQueue = "new:index"
	}
	if cnf.Queue.PointsQueue == "" {
		cnf.Queue.PointsQueue = "new:points"
	}
	if cnf.Queue.MonitoringPort == "" {
		cnf.Queue.MonitoringPort = "5004"
	}

	if cnf.Notification.SMS.BaseURL == "" {
		cnf.Notification.SMS.BaseURL = "https://api.twilio.com"
	}
	if cnf.Notification.SMS.DailyLimit <= 0 {
		cnf.Notification.SMS.DailyLimit = 10
	}

	// Rate limiting is disabled by default (when both RPS and Burst are nil)
	if cnf.RateLimit.RequestsPerSecond != nil && cnf.RateLimit.Burst == nil {
		defaultBurst := 2 * int(*cnf.RateLimit.RequestsPerSecond)
		cnf.RateLimit.Burst = &defaultBurst
		log.Printf("Warning: Rate limit burst not specified. Setting default value: %d", defaultBurst)
	}
	if cnf.RateLimit.RequestsPerSecond == nil && cnf.RateLimit.Burst != nil {
		defaultRPS := float64(*cnf.RateLimit.Burst) / 2
		cnf.RateLimit.RequestsPerSecond = &defaultRPS
		log.Printf("Warning: Rate limit RPS not specified. Setting default value: %.2f", defaultRPS)
	}

	// Set default cleanup interval if not specified
	if cnf.RateLimit.CleanupIntervalSec == nil {
		defaultCleanup := 10800 // 3 hours in seconds
		cnf.RateLimit.CleanupIntervalSec = &defaultCleanup
		log.Printf("Warning: Rate limit cleanup interval not specified. Setting default value: %d seconds", defaultCleanup)
	}

	return nil
}

// MockConfig sets a mock configuration for testing purposes.
func MockConfig(mockConfig *Configuration) {
	ConfigStore.Store(mockConfig)
}

func logger() {
	logger := logrus.New()
	log.SetOutput(logger.Writer())
}
