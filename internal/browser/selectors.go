// File: internal/browser/selectors.go
// Description: Hand-maintained WhatsApp Web locators, ordered by priority.
// These are inherently coupled to a third-party UI and drift over time;
// every consumer walks the list in order and reports which entry matched so
// drift shows up in the logs before it becomes total breakage.
package browser

// Locator is one element-finding strategy. Query is an XPath expression
// (chromedp BySearch).
type Locator struct {
	Name  string
	Query string
}

// LoginLocators confirm an authenticated WhatsApp Web session. The chat
// side panel only renders once logged in.
var LoginLocators = []Locator{
	{Name: "side-panel", Query: `//div[@id='side']`},
	{Name: "chat-search", Query: `//div[contains(@class,'lexical-rich-text-input')]//div[@role='textbox' and @contenteditable='true']`},
}

// ComposerLocators find the message input box. The primary targets the
// current lexical editor; the fallback matches on the aria label and
// survives attribute churn better.
var ComposerLocators = []Locator{
	{Name: "lexical-composer", Query: `//div[contains(@class,'lexical-rich-text-input')]//div[@role='textbox' and @contenteditable='true' and @data-tab='10' and not(ancestor::*[@aria-hidden='true'])]`},
	{Name: "aria-composer", Query: `//div[contains(@class,'lexical-rich-text-input')]//div[@role='textbox' and @aria-label='Type a message']`},
}

// SendButtonLocators trigger the send action, in priority order. When the
// whole ladder fails the dispatcher falls back to an Enter keystroke on the
// composer.
var SendButtonLocators = []Locator{
	{Name: "send-button", Query: `//button[@aria-label='Send']`},
	{Name: "media-send-button", Query: `//div[@role='button' and @aria-label='Send']//span[@data-icon='wds-ic-send-filled']`},
}

// AttachButtonLocators open the attachment menu.
var AttachButtonLocators = []Locator{
	{Name: "attach-title", Query: `//div[@title='Attach']`},
	{Name: "attach-aria", Query: `//button[@aria-label='Attach']`},
	{Name: "attach-plus-icon", Query: `//span[@data-icon='plus']`},
	{Name: "attach-menu-icon", Query: `//span[@data-icon='attach-menu-plus']`},
}

// MediaFileInputLocators are the upload inputs for images and videos.
var MediaFileInputLocators = []Locator{
	{Name: "media-input", Query: `//input[@type='file' and (contains(@accept,'image') or contains(@accept,'video'))]`},
	{Name: "any-file-input", Query: `//input[@type='file']`},
}

// DocumentFileInputLocators are the upload inputs for arbitrary documents.
var DocumentFileInputLocators = []Locator{
	{Name: "document-input", Query: `//input[@type='file' and not(contains(@accept,'image'))]`},
	{Name: "any-file-input", Query: `//input[@type='file']`},
}

// MediaSendLocators confirm an attachment from its preview modal.
var MediaSendLocators = []Locator{
	{Name: "preview-send-icon", Query: `//span[@data-icon='send']`},
	{Name: "preview-send-aria", Query: `//div[@role='button' and @aria-label='Send']`},
	{Name: "preview-send-wds", Query: `//span[@data-icon='wds-ic-send-filled']`},
}

// InvalidPhoneLocator appears when the deep link points at a number that is
// not on WhatsApp.
var InvalidPhoneLocator = Locator{
	Name:  "invalid-phone-notice",
	Query: `//div[contains(text(), 'Phone number')]`,
}
