package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"HomeRadar/pkg/config"
	"HomeRadar/pkg/messaging"
)

// 系统冒烟验证：检查API健康状态，经HTTP和NATS各上报一条读数
func main() {
	log.Println("开始系统验证...")

	// 加载配置
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "configs/dev/app.yaml"
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		log.Fatalf("加载配置失败: %v\n", err)
	}

	apiBase := "http://localhost:" + cfg.API.Port

	// 1. 健康检查
	resp, err := http.Get(apiBase + "/health")
	if err != nil {
		log.Fatalf("API不可达: %v\n", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		log.Fatalf("健康检查失败: %d\n", resp.StatusCode)
	}
	log.Println("API健康检查通过")

	metricID := os.Getenv("VERIFY_METRIC_ID")
	if metricID == "" {
		log.Println("未设置VERIFY_METRIC_ID，跳过读数上报验证")
		return
	}

	// 2. 经HTTP上报一条读数
	body, _ := json.Marshal(map[string]interface{}{
		"metric_id": metricID,
		"value":     35.5,
	})
	resp, err = http.Post(apiBase+"/api/v1/readings", "application/json", bytes.NewReader(body))
	if err != nil {
		log.Fatalf("上报读数失败: %v\n", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		log.Fatalf("上报读数返回异常状态: %d\n", resp.StatusCode)
	}
	log.Println("HTTP读数上报通过")

	// 3. 经NATS上报一条读数
	natsClient, err := messaging.NewNATSClient(cfg.NATS.URL)
	if err != nil {
		log.Printf("连接NATS失败: %v，跳过NATS相关验证\n", err)
		return
	}
	defer natsClient.Close()

	subject := fmt.Sprintf("readings.%s", metricID)
	payload := map[string]interface{}{
		"metric_id": metricID,
		"value":     36.0,
		"timestamp": time.Now(),
	}
	if err := natsClient.Publish(subject, payload); err != nil {
		log.Fatalf("NATS读数发布失败: %v\n", err)
	}
	log.Println("NATS读数发布通过")

	log.Println("系统验证完成")
}
