package visibility

import (
	"github.com/iceymoss/go-blog/pkg/db/objects"
)

// Anonymous 未登录调用者的哨兵身份
// 没有任何真实用户的 id 等于 0，草稿对匿名请求自然全部不可见
const Anonymous uint64 = 0

// Fragment 返回可见性谓词的 SQL 片段和绑定参数
// 规则：published 所有人可见，draft 仅作者本人可见
// 片段自带括号，必须与其他过滤条件 AND 组合，绝不能被替换掉
func Fragment(alias string, identity uint64) (string, []interface{}) {
	prefix := ""
	if alias != "" {
		prefix = alias + "."
	}
	cond := "(" + prefix + "status = ? OR (" + prefix + "status = ? AND " + prefix + "user_id = ?))"
	return cond, []interface{}{objects.ArticleStatusPublished, objects.ArticleStatusDraft, identity}
}
