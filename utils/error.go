package utils

import (
	"fmt"
)

type ServiceError struct {
	Code uint32
	Msg  string
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("ServiceError: code=%d, msg=%s", e.Code, e.Msg)
}

var (
	// business error code: [510000, 520000)
	// ErrDatasetNotFound 数据集原始文件缺失，该数据集跳过,其他数据集继续
	ErrDatasetNotFound = &ServiceError{510001, "dataset raw file not found"}
	// ErrToolNotFound 挖掘工具路径配置错误,整个跑批终止
	ErrToolNotFound = &ServiceError{510002, "mining tool not found"}
	// ErrToolExecution 工具非零退出,所在批次终止
	ErrToolExecution = &ServiceError{510003, "mining tool execution failed"}
	// ErrChannelUnavailable 文件系统不支持命名管道
	ErrChannelUnavailable = &ServiceError{510004, "pattern fifo unavailable"}
	// ErrExtractionTimeout 消费者未能在限时内清空管道
	ErrExtractionTimeout = &ServiceError{510005, "pattern stream not drained in time"}
	// ErrEncoding 编码产物异常
	ErrEncoding = &ServiceError{510006, "dataset encoding failed"}
)
