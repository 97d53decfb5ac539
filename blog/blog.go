package blog

import (
	"bytes"
	"html/template"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	htmlrenderer "github.com/yuin/goldmark/renderer/html"
	"gorm.io/gorm"

	"soundblog/auth"
	"soundblog/models"
)

// dateLayout is the display string stored on a post at creation time.
// It is never re-parsed anywhere.
const dateLayout = "January 02, 2006"

type BlogModule struct {
	db   *gorm.DB
	auth *auth.AuthModule
}

// markdown renderer configured with Goldmark and useful extensions
var md = goldmark.New(
	goldmark.WithExtensions(
		extension.GFM,     // tables, strikethrough, task lists, autolinks (GFM set)
		extension.Linkify, // linkify raw URLs
	),
	goldmark.WithRendererOptions(
		htmlrenderer.WithUnsafe(), // allow raw HTML passthrough in Markdown
	),
)

func NewBlogModule(db *gorm.DB, authModule *auth.AuthModule) *BlogModule {
	return &BlogModule{db: db, auth: authModule}
}

func (b *BlogModule) RegisterRoutes(router *gin.Engine) {
	router.GET("/", b.index)
	router.GET("/about", b.about)
	router.GET("/contact", b.contact)
	router.GET("/post/:id", b.showPost)
	router.POST("/post/:id", b.auth.RequireLogin, b.postComment)

	router.GET("/new-post", b.auth.RequireAdmin, b.newPost)
	router.POST("/new-post", b.auth.RequireAdmin, b.createPost)
	router.GET("/edit-post/:id", b.auth.RequireAdmin, b.editPost)
	router.POST("/edit-post/:id", b.auth.RequireAdmin, b.updatePost)
	router.GET("/delete/:id", b.auth.RequireAdmin, b.deletePost)
}

type postForm struct {
	Title    string `form:"title" binding:"required"`
	Subtitle string `form:"subtitle" binding:"required"`
	ImgURL   string `form:"img_url" binding:"required,url"`
	Body     string `form:"body" binding:"required"`
}

// editPostForm additionally exposes the author id. Only the edit flow allows
// reassigning authorship; the create flow pins it to the current identity.
type editPostForm struct {
	postForm
	AuthorID int `form:"author_id" binding:"required"`
}

type commentForm struct {
	Text string `form:"comment" binding:"required"`
}

func (b *BlogModule) index(c *gin.Context) {
	// no pagination and no ordering beyond store default
	var posts []models.BlogPost
	if err := b.db.Preload("Author").Find(&posts).Error; err != nil {
		c.HTML(http.StatusInternalServerError, "error.html", gin.H{
			"status": http.StatusInternalServerError,
			"error":  "Error loading posts",
		})
		return
	}

	userID, _ := auth.CurrentUserID(c)

	c.HTML(http.StatusOK, "blog_index.html", gin.H{
		"posts":   posts,
		"userID":  userID,
		"isAdmin": b.auth.IsAdmin(c),
		"flash":   auth.TakeFlash(c),
	})
}

func (b *BlogModule) about(c *gin.Context) {
	c.HTML(http.StatusOK, "blog_about.html", gin.H{})
}

func (b *BlogModule) contact(c *gin.Context) {
	c.HTML(http.StatusOK, "blog_contact.html", gin.H{})
}

func (b *BlogModule) getPost(postID string) (*models.BlogPost, error) {
	id, err := strconv.Atoi(postID)
	if err != nil {
		return nil, gorm.ErrRecordNotFound
	}

	var post models.BlogPost
	err = b.db.Preload("Author").
		Preload("Comments").
		Preload("Comments.Commenter").
		First(&post, id).Error
	return &post, err
}

func (b *BlogModule) showPost(c *gin.Context) {
	post, err := b.getPost(c.Param("id"))
	if err != nil {
		c.HTML(http.StatusNotFound, "error.html", gin.H{
			"status": http.StatusNotFound,
			"error":  "Post not found",
		})
		return
	}

	userID, _ := auth.CurrentUserID(c)

	c.HTML(http.StatusOK, "blog_post.html", gin.H{
		"post":     post,
		"bodyHTML": template.HTML(renderMarkdown(post.Body)),
		"userID":   userID,
		"isAdmin":  b.auth.IsAdmin(c),
		"flash":    auth.TakeFlash(c),
	})
}

func (b *BlogModule) postComment(c *gin.Context) {
	post, err := b.getPost(c.Param("id"))
	if err != nil {
		c.HTML(http.StatusNotFound, "error.html", gin.H{
			"status": http.StatusNotFound,
			"error":  "Post not found",
		})
		return
	}

	userID := c.GetInt("user_id")

	var form commentForm
	if err := c.ShouldBind(&form); err != nil {
		c.HTML(http.StatusBadRequest, "blog_post.html", gin.H{
			"post":     post,
			"bodyHTML": template.HTML(renderMarkdown(post.Body)),
			"userID":   userID,
			"error":    "Comment cannot be empty",
		})
		return
	}

	comment := models.Comment{
		Text:        form.Text,
		CommenterID: userID,
		PostID:      post.ID,
	}

	if err := b.db.Create(&comment).Error; err != nil {
		c.HTML(http.StatusInternalServerError, "error.html", gin.H{
			"status": http.StatusInternalServerError,
			"error":  "Error saving comment",
		})
		return
	}

	// re-render the same page, no redirect: a refresh resubmits the form
	post, err = b.getPost(c.Param("id"))
	if err != nil {
		c.HTML(http.StatusNotFound, "error.html", gin.H{
			"status": http.StatusNotFound,
			"error":  "Post not found",
		})
		return
	}

	c.HTML(http.StatusOK, "blog_post.html", gin.H{
		"post":     post,
		"bodyHTML": template.HTML(renderMarkdown(post.Body)),
		"userID":   userID,
	})
}

func (b *BlogModule) newPost(c *gin.Context) {
	c.HTML(http.StatusOK, "blog_make_post.html", gin.H{
		"heading": "New Post",
		"action":  "/new-post",
	})
}

func (b *BlogModule) createPost(c *gin.Context) {
	var form postForm
	if err := c.ShouldBind(&form); err != nil {
		c.HTML(http.StatusBadRequest, "blog_make_post.html", gin.H{
			"heading": "New Post",
			"action":  "/new-post",
			"error":   "All fields are required and the image must be a URL",
			"form":    form,
		})
		return
	}

	post := models.BlogPost{
		AuthorID: c.GetInt("user_id"),
		Title:    form.Title,
		Subtitle: form.Subtitle,
		Date:     time.Now().Format(dateLayout),
		Body:     form.Body,
		ImgURL:   form.ImgURL,
	}

	if err := b.db.Create(&post).Error; err != nil {
		c.HTML(http.StatusInternalServerError, "error.html", gin.H{
			"status": http.StatusInternalServerError,
			"error":  "Error creating post",
		})
		return
	}

	c.Redirect(http.StatusFound, "/")
}

func (b *BlogModule) editPost(c *gin.Context) {
	post, err := b.getPost(c.Param("id"))
	if err != nil {
		c.HTML(http.StatusNotFound, "error.html", gin.H{
			"status": http.StatusNotFound,
			"error":  "Post not found",
		})
		return
	}

	c.HTML(http.StatusOK, "blog_make_post.html", gin.H{
		"heading": "Edit Post",
		"action":  "/edit-post/" + strconv.Itoa(post.ID),
		"post":    post,
	})
}

func (b *BlogModule) updatePost(c *gin.Context) {
	post, err := b.getPost(c.Param("id"))
	if err != nil {
		c.HTML(http.StatusNotFound, "error.html", gin.H{
			"status": http.StatusNotFound,
			"error":  "Post not found",
		})
		return
	}

	var form editPostForm
	if err := c.ShouldBind(&form); err != nil {
		c.HTML(http.StatusBadRequest, "blog_make_post.html", gin.H{
			"heading": "Edit Post",
			"action":  "/edit-post/" + strconv.Itoa(post.ID),
			"post":    post,
			"error":   "All fields are required and the image must be a URL",
		})
		return
	}

	post.Title = form.Title
	post.Subtitle = form.Subtitle
	post.ImgURL = form.ImgURL
	post.Body = form.Body
	post.AuthorID = form.AuthorID

	if err := b.db.Save(post).Error; err != nil {
		c.HTML(http.StatusInternalServerError, "error.html", gin.H{
			"status": http.StatusInternalServerError,
			"error":  "Error updating post",
		})
		return
	}

	c.Redirect(http.StatusFound, "/post/"+strconv.Itoa(post.ID))
}

func (b *BlogModule) deletePost(c *gin.Context) {
	postID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.HTML(http.StatusBadRequest, "error.html", gin.H{
			"status": http.StatusBadRequest,
			"error":  "Invalid post id",
		})
		return
	}

	result := b.db.Delete(&models.BlogPost{}, postID)
	if result.Error != nil {
		c.HTML(http.StatusInternalServerError, "error.html", gin.H{
			"status": http.StatusInternalServerError,
			"error":  "Error deleting post",
		})
		return
	}

	if result.RowsAffected == 0 {
		c.HTML(http.StatusNotFound, "error.html", gin.H{
			"status": http.StatusNotFound,
			"error":  "Post not found",
		})
		return
	}

	// comments cascade with their post
	if err := b.db.Where("post_id = ?", postID).Delete(&models.Comment{}).Error; err != nil {
		c.HTML(http.StatusInternalServerError, "error.html", gin.H{
			"status": http.StatusInternalServerError,
			"error":  "Error deleting comments",
		})
		return
	}

	c.Redirect(http.StatusFound, "/")
}

func renderMarkdown(content string) string {
	var buf bytes.Buffer
	if err := md.Convert([]byte(content), &buf); err != nil {
		// on error, fall back to the raw content so the page still renders
		return content
	}
	return buf.String()
}
