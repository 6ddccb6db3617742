package workflow

import (
	"context"
	"sync"

	"jobportal/pkg/models"
)

// Topic is one entry of the resource catalogue
type Topic struct {
	Title       string
	Description string
	Audience    models.Audience
}

var catalogue = []Topic{
	{"Advanced Resume Writing Tips", "Learn how to tailor your resume for Applicant Tracking Systems (ATS) and human recruiters.", models.AudienceJobSeeker},
	{"Common Interview Questions & Answers", "Prepare for common questions and learn how to structure your answers effectively.", models.AudienceJobSeeker},
	{"Salary Negotiation Strategies", "Get confident and effective strategies for negotiating your salary and benefits package.", models.AudienceJobSeeker},
	{"Crafting a Compelling Cover Letter", "Understand the key components of a cover letter that grabs attention.", models.AudienceJobSeeker},
	{"Effective Interviewing Techniques", "Learn how to conduct structured interviews that reveal a candidate's true potential.", models.AudienceEmployer},
	{"Writing Inclusive Job Descriptions", "Craft job descriptions that attract a diverse and qualified pool of candidates.", models.AudienceEmployer},
	{"Onboarding Best Practices", "Discover how to create a successful onboarding process for new hires.", models.AudienceEmployer},
	{"Building a Strong Employer Brand", "Get tips on how to showcase your company culture to attract top talent.", models.AudienceEmployer},
}

// Catalogue lists the topics for one audience
func Catalogue(audience models.Audience) []Topic {
	var topics []Topic
	for _, t := range catalogue {
		if t.Audience == audience {
			topics = append(topics, t)
		}
	}
	return topics
}

func findTopic(audience models.Audience, title string) (Topic, bool) {
	for _, t := range catalogue {
		if t.Audience == audience && t.Title == title {
			return t, true
		}
	}
	return Topic{}, false
}

// ResourceView is the state of one topic slot
type ResourceView struct {
	Topic   Topic
	Content string
	Loading bool
	Error   string
}

type resourceKey struct {
	audience models.Audience
	title    string
}

type resourceSlot struct {
	loading bool
	content string
	err     string
}

// Resources holds one generate slot per catalogue topic
type Resources struct {
	store *Store
	api   API

	mu    sync.Mutex
	slots map[resourceKey]*resourceSlot
}

// NewResources creates the resource flow over store
func NewResources(store *Store, api API) *Resources {
	return &Resources{
		store: store,
		api:   api,
		slots: make(map[resourceKey]*resourceSlot),
	}
}

func (r *Resources) slotLocked(key resourceKey) *resourceSlot {
	slot, ok := r.slots[key]
	if !ok {
		slot = &resourceSlot{}
		r.slots[key] = slot
	}
	return slot
}

// View returns the slot state of a topic
func (r *Resources) View(audience models.Audience, title string) (ResourceView, error) {
	topic, ok := findTopic(audience, title)
	if !ok {
		return ResourceView{}, ErrUnknownTopic
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	slot := r.slotLocked(resourceKey{audience, title})
	return ResourceView{
		Topic:   topic,
		Content: slot.content,
		Loading: slot.loading,
		Error:   slot.err,
	}, nil
}

// Generate fetches the guide for a topic. Once content exists it is returned
// without another call.
func (r *Resources) Generate(ctx context.Context, audience models.Audience, title string) (string, error) {
	if _, ok := findTopic(audience, title); !ok {
		return "", ErrUnknownTopic
	}
	key := resourceKey{audience, title}

	r.mu.Lock()
	slot := r.slotLocked(key)
	if slot.content != "" {
		content := slot.content
		r.mu.Unlock()
		return content, nil
	}
	if slot.loading {
		r.mu.Unlock()
		return "", ErrBusy
	}
	slot.loading = true
	slot.err = ""
	r.mu.Unlock()
	r.store.publish(Event{Kind: EventResources})

	content, err := r.api.GenerateResourceContent(ctx, title, audience)

	r.mu.Lock()
	slot.loading = false
	if r.store.Closed() {
		r.mu.Unlock()
		return "", ErrClosed
	}
	if err != nil {
		slot.err = err.Error()
		r.mu.Unlock()
		r.store.publish(Event{Kind: EventResources})
		return "", err
	}
	slot.content = content
	r.mu.Unlock()

	r.store.publish(Event{Kind: EventResources})
	return content, nil
}
