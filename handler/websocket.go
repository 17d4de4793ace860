package handler

import (
	"context"
	"strconv"
	"sync"

	"install_manager/database"
	"install_manager/helper"
	"install_manager/model"

	"github.com/gofiber/contrib/websocket"
)

var (
	orderClients = make(map[uint]map[*websocket.Conn]bool)
	orderMu      sync.Mutex
)

// OrderWebsocket streams realtime order events (status changes, payments,
// messages) to everyone watching an order.
func OrderWebsocket(c *websocket.Conn) {
	idStr := c.Params("id")
	id64, _ := strconv.ParseUint(idStr, 10, 64)
	orderId := uint(id64)

	defer func() {
		orderMu.Lock()
		if orderClients[orderId] != nil {
			delete(orderClients[orderId], c)
		}
		orderMu.Unlock()
		c.Close()
	}()

	orderMu.Lock()
	if orderClients[orderId] == nil {
		orderClients[orderId] = make(map[*websocket.Conn]bool)
	}
	orderClients[orderId][c] = true
	orderMu.Unlock()

	// Initial snapshot so the client renders without waiting for an event
	var order model.Order
	if err := database.DB.First(&order, orderId).Error; err == nil {
		c.WriteJSON(map[string]interface{}{
			"orderId":        order.ID,
			"status":         order.Status,
			"engineerStatus": order.EngineerStatus,
		})
	}

	pubsub := helper.SubscribeOrder(context.Background(), orderId)
	defer pubsub.Close()

	for msg := range pubsub.Channel() {
		payload := []byte(msg.Payload)

		orderMu.Lock()
		for conn := range orderClients[orderId] {
			if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				conn.Close()
				delete(orderClients[orderId], conn)
			}
		}
		orderMu.Unlock()
	}
}
