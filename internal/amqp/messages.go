package amqp

import (
	"encoding/json"
	"time"
)

// SaleExportMessage tells the export worker which sale to push to the
// spreadsheet. Only the ID travels on the wire, the worker fetches the
// full record from the database.
type SaleExportMessage struct {
	SaleID    int64     `json:"sale_id"`
	Timestamp time.Time `json:"timestamp"`
}

func NewSaleExportMessage(saleID int64) *SaleExportMessage {
	return &SaleExportMessage{
		SaleID:    saleID,
		Timestamp: time.Now(),
	}
}

func (m *SaleExportMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func SaleExportMessageFromJSON(data []byte) (*SaleExportMessage, error) {
	var msg SaleExportMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

// ReminderNoticeMessage carries a scheduled task for an active batch to
// whatever notification channel consumes the reminder queue.
type ReminderNoticeMessage struct {
	BatchID    int64     `json:"batch_id"`
	BatchName  string    `json:"batch_name"`
	DayOfCycle int       `json:"day_of_cycle"`
	Title      string    `json:"title"`
	Message    string    `json:"message"`
	Priority   string    `json:"priority"`
	Icon       string    `json:"icon"`
	Timestamp  time.Time `json:"timestamp"`
}

func (m *ReminderNoticeMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func ReminderNoticeMessageFromJSON(data []byte) (*ReminderNoticeMessage, error) {
	var msg ReminderNoticeMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
