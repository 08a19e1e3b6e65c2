package socket

import (
	"github.com/projecthub/project-hub-backend/internal/logger"
	"github.com/projecthub/project-hub-backend/internal/service"
)

var _ service.Broadcaster = (*Broadcaster)(nil)

// Broadcaster provides high-level methods for broadcasting domain events
type Broadcaster struct {
	hub *Hub
}

func NewBroadcaster(hub *Hub) *Broadcaster {
	return &Broadcaster{hub: hub}
}

// ============================================
// Estimation Broadcasting
// ============================================

// BroadcastEstimationCreated tells the tenant a new estimate exists
func (b *Broadcaster) BroadcastEstimationCreated(tenantID string, estimation map[string]interface{}, excludeUserID string) {
	b.hub.SendToRoom(TenantRoom(tenantID), MessageEstimationCreated, estimation, excludeUserID)
}

func (b *Broadcaster) BroadcastEstimationDeleted(tenantID, estimationID, excludeUserID string) {
	b.hub.SendToRoom(TenantRoom(tenantID), MessageEstimationDeleted, map[string]interface{}{
		"estimationId": estimationID,
	}, excludeUserID)
}

// ============================================
// Project Broadcasting
// ============================================

func (b *Broadcaster) BroadcastProjectCreated(tenantID string, project map[string]interface{}, excludeUserID string) {
	b.hub.SendToRoom(TenantRoom(tenantID), MessageProjectCreated, project, excludeUserID)
}

// BroadcastProjectUpdated reaches both the tenant and the project room.
func (b *Broadcaster) BroadcastProjectUpdated(tenantID string, project map[string]interface{}, excludeUserID string) {
	b.hub.SendToRoom(TenantRoom(tenantID), MessageProjectUpdated, project, excludeUserID)
	if id, ok := project["id"].(string); ok {
		b.hub.SendToRoom(ProjectRoom(tenantID, id), MessageProjectUpdated, project, excludeUserID)
	}
}

func (b *Broadcaster) BroadcastProjectDeleted(tenantID, projectID, excludeUserID string) {
	payload := map[string]interface{}{"projectId": projectID}
	b.hub.SendToRoom(TenantRoom(tenantID), MessageProjectDeleted, payload, excludeUserID)
	b.hub.SendToRoom(ProjectRoom(tenantID, projectID), MessageProjectDeleted, payload, excludeUserID)
}

// ============================================
// Task Broadcasting
// ============================================

// BroadcastTaskCreated broadcasts task creation to project subscribers
func (b *Broadcaster) BroadcastTaskCreated(tenantID, projectID string, task map[string]interface{}, excludeUserID string) {
	b.hub.SendToRoom(ProjectRoom(tenantID, projectID), MessageTaskCreated, task, excludeUserID)
}

func (b *Broadcaster) BroadcastTaskUpdated(
	tenantID, projectID string,
	task map[string]interface{},
	changes []string,
	excludeUserID string,
) {
	room := ProjectRoom(tenantID, projectID)
	logger.Global().Debug().
		Str("room", room).
		Interface("task_id", task["id"]).
		Strs("changes", changes).
		Msg("📡 Task updated")

	b.hub.SendToRoom(room, MessageTaskUpdated, map[string]interface{}{
		"task":          task,
		"changedFields": changes,
		"changedByUser": excludeUserID,
		"projectId":     projectID,
	}, excludeUserID)
}

func (b *Broadcaster) BroadcastTaskStatusChanged(tenantID, projectID string, task map[string]interface{}, oldStatus, newStatus, excludeUserID string) {
	b.hub.SendToRoom(ProjectRoom(tenantID, projectID), MessageTaskStatusChanged, map[string]interface{}{
		"task":          task,
		"oldStatus":     oldStatus,
		"newStatus":     newStatus,
		"changedByUser": excludeUserID,
	}, excludeUserID)
}

func (b *Broadcaster) BroadcastTaskDeleted(tenantID, projectID, taskID, excludeUserID string) {
	b.hub.SendToRoom(ProjectRoom(tenantID, projectID), MessageTaskDeleted, map[string]interface{}{
		"taskId":    taskID,
		"projectId": projectID,
	}, excludeUserID)
}

// BroadcastTaskAssigned notifies the assigned user directly
func (b *Broadcaster) BroadcastTaskAssigned(assigneeID string, task map[string]interface{}, assignedBy string) {
	b.hub.SendToUser(assigneeID, MessageTaskAssigned, map[string]interface{}{
		"task":       task,
		"assignedBy": assignedBy,
	})
}

// ============================================
// Documentation Broadcasting
// ============================================

func (b *Broadcaster) BroadcastDocumentationPublished(tenantID, projectID string, doc map[string]interface{}, excludeUserID string) {
	b.hub.SendToRoom(TenantRoom(tenantID), MessageDocumentationPublished, map[string]interface{}{
		"documentation": doc,
		"projectId":     projectID,
	}, excludeUserID)
}

// ============================================
// System Broadcasting
// ============================================

// BroadcastSystem sends a notice to every connected client.
func (b *Broadcaster) BroadcastSystem(message string) {
	b.hub.Broadcast(MessageSystem, map[string]interface{}{"message": message})
}
