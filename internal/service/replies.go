package service

import (
	"fmt"
	"strings"

	"taskdog.app/bot/internal/model"
)

// Reply texts keep the original bot's voice.
const (
	replyThinking       = "TDog正在思考中..."
	replyClarify        = "呜... TDog没太明白你的意思，可以换个说法吗？"
	replyStoreFailure   = "哎呀，TDog的记事本好像出了点问题，没存上。"
	replyListFailure    = "哎呀，TDog的记事本翻不开了，稍后再试试。"
	replyNothingPending = "目前没有待办任务，好好休息吧！"
	replyArchiveUsage   = "用法：/done <任务ID> 或 /cancel <任务ID>"
	replyTaskNotFound   = "没有找到这个任务，或者它不属于你哦。"

	deadlineUnspecified = "未指定时间"
)

func confirmationReply(task model.Task) string {
	deadline := deadlineUnspecified
	if task.Deadline != nil && *task.Deadline != "" {
		deadline = *task.Deadline
	}
	return fmt.Sprintf("好的！新的待办已记录：\n\n📝 任务: %s\n⏰ 时间: %s", task.TaskDescription, deadline)
}

func archivedReply(taskID int64, status model.TaskStatus) string {
	verb := "完成"
	if status == model.TaskStatusCancelled {
		verb = "取消"
	}
	return fmt.Sprintf("好嘞！任务 #%d 已%s。", taskID, verb)
}

// renderTaskList renders each task as an id-tagged block, blocks joined by
// blank lines. No pagination: the reply grows with the task count.
func renderTaskList(tasks []model.Task) string {
	blocks := make([]string, 0, len(tasks))
	for _, task := range tasks {
		var b strings.Builder
		fmt.Fprintf(&b, "#%d 📝 %s", task.ID, task.TaskDescription)
		if task.Author != nil && *task.Author != "" {
			fmt.Fprintf(&b, "\n👤 来自: %s", *task.Author)
		}
		if task.Participants != nil && *task.Participants != "" {
			fmt.Fprintf(&b, "\n👥 参与人: %s", *task.Participants)
		}
		if task.Deadline != nil && *task.Deadline != "" {
			fmt.Fprintf(&b, "\n⏰ 时间: %s", *task.Deadline)
		}
		blocks = append(blocks, b.String())
	}
	return strings.Join(blocks, "\n\n")
}
