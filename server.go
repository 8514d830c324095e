package main

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"fim-bench/base/config"
	"fim-bench/base/logger"
	"fim-bench/sweep"
)

// StartServer 启动HTTP触发入口，POST /bench 同步跑完一轮扫描后返回
func StartServer(cfg *config.AllConfig) error {
	r := gin.Default()

	r.POST("/bench", func(c *gin.Context) {
		var req BenchRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": err.Error(),
			})
			logger.Errorf("bench请求异常: %v", err)
			return
		}

		plan, err := req.ToPlan()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": err.Error(),
			})
			return
		}

		startTime := time.Now().UnixMilli()
		sch := sweep.NewScheduler(cfg, plan)
		if err := sch.Run(); err != nil {
			c.JSON(http.StatusOK, gin.H{
				"success": false,
				"error":   err.Error(),
			})
			return
		}

		recordCount := map[string]int{}
		for ds, store := range sch.Stores() {
			recordCount[ds] = len(store.ByTxRatio) + len(store.ByMinsup)
		}
		c.JSON(http.StatusOK, gin.H{
			"success":      true,
			"results_dir":  cfg.Paths.ResultsDir,
			"record_count": recordCount,
			"spent_time":   time.Now().UnixMilli() - startTime,
		})
	})

	address := ":" + cfg.Server.HttpPort
	logger.Infof("bench server listening on %s", address)
	return r.Run(address)
}
