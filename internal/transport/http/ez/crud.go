package ez

import (
	"errors"
	"net/http"
	"reflect"
	"unicode"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"sample-app/internal/domain"
	resp "sample-app/internal/transport/http/response"
	"sample-app/pkg/utils"
)

type CrudHooks[T any] struct {
	BeforeCreate func(c *gin.Context, m *T) error
	AfterCreate  func(c *gin.Context, m *T) // 缓存失效、计数等
	AfterDelete  func(c *gin.Context, m *T)
	ScopeList    func(c *gin.Context, q *gorm.DB) *gorm.DB
}

// CrudConfig 资源归属于当前用户的增 / 查 / 删；没有修改
type CrudConfig[T any] struct {
	DB   *gorm.DB
	EZ   EZ // 已挂会话中间件的分组
	Path string
	New  func() *T

	Hooks CrudHooks[T]

	AllowCreate bool
	AllowList   bool
	AllowGet    bool
	AllowDelete bool

	IDField    string // 默认 "ID"
	OwnerField string // 默认 "UserID"
	IDGen      func() string
	OrderBy    string // 默认 "id DESC"
}

func (cfg *CrudConfig[T]) idFieldName() string {
	if cfg.IDField != "" {
		return cfg.IDField
	}
	return "ID"
}

func (cfg *CrudConfig[T]) ownerFieldName() string {
	if cfg.OwnerField != "" {
		return cfg.OwnerField
	}
	return "UserID"
}

// stringField 按字段名取可写的 string 字段指针
func stringField(obj any, name string) (*string, bool) {
	v := reflect.ValueOf(obj)
	if v.Kind() != reflect.Ptr || v.Elem().Kind() != reflect.Struct {
		return nil, false
	}
	f := v.Elem().FieldByName(name)
	if !f.IsValid() || f.Kind() != reflect.String || !f.CanSet() {
		return nil, false
	}
	return f.Addr().Interface().(*string), true
}

func readField(obj any, name string) string {
	if p, ok := stringField(obj, name); ok {
		return *p
	}
	return ""
}

func writeField(obj any, name, val string) bool {
	p, ok := stringField(obj, name)
	if ok {
		*p = val
	}
	return ok
}

// toSnake UserID -> user_id，与 gorm 默认命名策略一致
func toSnake(s string) string {
	rs := []rune(s)
	out := make([]rune, 0, len(rs)+4)
	for i, r := range rs {
		if unicode.IsUpper(r) {
			if i > 0 && (unicode.IsLower(rs[i-1]) || (i+1 < len(rs) && unicode.IsLower(rs[i+1]))) {
				out = append(out, '_')
			}
			r = unicode.ToLower(r)
		}
		out = append(out, r)
	}
	return string(out)
}

// Crud 注册路由；模型缺少 ID / 归属字段时直接 panic（启动期配置错误）
func Crud[T any](cfg CrudConfig[T]) {
	if !cfg.AllowCreate && !cfg.AllowGet && !cfg.AllowList && !cfg.AllowDelete {
		cfg.AllowCreate, cfg.AllowList, cfg.AllowGet, cfg.AllowDelete = true, true, true, true
	}
	if cfg.IDGen == nil {
		cfg.IDGen = utils.NewID
	}
	if cfg.OrderBy == "" {
		cfg.OrderBy = "id DESC"
	}
	idName, ownerName := cfg.idFieldName(), cfg.ownerFieldName()
	probe := cfg.New()
	if _, ok := stringField(probe, idName); !ok {
		panic("crud: string field " + idName + " not found")
	}
	if _, ok := stringField(probe, ownerName); !ok {
		panic("crud: string field " + ownerName + " not found")
	}

	g, l := cfg.EZ.g, cfg.EZ.log
	fail := func(c *gin.Context, err error) { c.JSON(http.StatusOK, ToResp(l, c, err)) }
	signedIn := func(c *gin.Context) (string, bool) {
		uid := c.GetString(KeyUserID)
		if uid == "" {
			fail(c, NeedSignIn())
			return "", false
		}
		return uid, true
	}
	// 先按 id 查，再比对归属：别人的资源返回 403
	loadOwned := func(c *gin.Context, uid string) (*T, bool) {
		m := cfg.New()
		err := cfg.DB.WithContext(c).Where(toSnake(idName)+" = ?", c.Param("id")).First(m).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			fail(c, domain.ErrNotFound)
			return nil, false
		}
		if err != nil {
			fail(c, Internal("load failed", err))
			return nil, false
		}
		if readField(m, ownerName) != uid {
			fail(c, domain.ErrNotOwner)
			return nil, false
		}
		return m, true
	}

	if cfg.AllowCreate {
		g.POST(cfg.Path, func(c *gin.Context) {
			uid, ok := signedIn(c)
			if !ok {
				return
			}
			m := cfg.New()
			if err := c.ShouldBindJSON(m); err != nil {
				c.JSON(http.StatusOK, resp.Error(resp.CodeBadRequest, err.Error()))
				return
			}
			// ID 和归属总是由服务端决定
			writeField(m, idName, cfg.IDGen())
			writeField(m, ownerName, uid)
			if cfg.Hooks.BeforeCreate != nil {
				if err := cfg.Hooks.BeforeCreate(c, m); err != nil {
					fail(c, err)
					return
				}
			}
			if err := cfg.DB.WithContext(c).Create(m).Error; err != nil {
				fail(c, Internal("create failed", err))
				return
			}
			if cfg.Hooks.AfterCreate != nil {
				cfg.Hooks.AfterCreate(c, m)
			}
			c.JSON(http.StatusOK, resp.OK(m))
		})
	}

	if cfg.AllowList {
		g.GET(cfg.Path, func(c *gin.Context) {
			uid, ok := signedIn(c)
			if !ok {
				return
			}
			p := PageOf(c)
			q := cfg.DB.WithContext(c).Model(cfg.New()).Where(toSnake(ownerName)+" = ?", uid)
			if cfg.Hooks.ScopeList != nil {
				q = cfg.Hooks.ScopeList(c, q)
			}
			q = q.Session(&gorm.Session{})
			var total int64
			if err := q.Count(&total).Error; err != nil {
				fail(c, Internal("count failed", err))
				return
			}
			items := make([]T, 0, p.Size)
			if err := q.Order(cfg.OrderBy).Limit(p.Size).Offset(p.Offset()).Find(&items).Error; err != nil {
				fail(c, Internal("list failed", err))
				return
			}
			c.JSON(http.StatusOK, resp.OK(gin.H{
				"list": items, "total": total, "page": p.Page, "size": p.Size,
			}))
		})
	}

	if cfg.AllowGet {
		g.GET(cfg.Path+"/:id", func(c *gin.Context) {
			uid, ok := signedIn(c)
			if !ok {
				return
			}
			if m, ok := loadOwned(c, uid); ok {
				c.JSON(http.StatusOK, resp.OK(m))
			}
		})
	}

	if cfg.AllowDelete {
		g.DELETE(cfg.Path+"/:id", func(c *gin.Context) {
			uid, ok := signedIn(c)
			if !ok {
				return
			}
			m, ok := loadOwned(c, uid)
			if !ok {
				return
			}
			if err := cfg.DB.WithContext(c).Delete(m).Error; err != nil {
				fail(c, Internal("delete failed", err))
				return
			}
			if cfg.Hooks.AfterDelete != nil {
				cfg.Hooks.AfterDelete(c, m)
			}
			c.JSON(http.StatusOK, resp.OK(gin.H{"id": readField(m, idName)}))
		})
	}
}
