package transcript

import "html/template"

var page = template.Must(template.New("transcript").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>#{{.Channel}} — transcript</title>
<style>
body { font-family: "Helvetica Neue", Arial, sans-serif; background: #313338; color: #dbdee1; margin: 0; }
header { position: sticky; top: 0; background: #1e1f22; padding: 12px 16px; display: flex; gap: 12px; align-items: center; flex-wrap: wrap; }
header h1 { font-size: 16px; margin: 0; color: #fff; }
header input, header select { background: #383a40; color: #dbdee1; border: none; border-radius: 4px; padding: 6px 10px; }
main { padding: 16px; max-width: 900px; margin: 0 auto; }
.msg { padding: 8px 12px; border-radius: 4px; }
.msg:hover { background: #2e3035; }
.meta { font-size: 12px; color: #949ba4; }
.meta .author { color: #f2f3f5; font-weight: 600; margin-left: 6px; }
.tag { font-size: 10px; border-radius: 3px; padding: 1px 4px; margin-left: 6px; vertical-align: middle; }
.tag-user { background: #5865f2; color: #fff; }
.tag-bot { background: #23a559; color: #fff; }
.tag-system { background: #949ba4; color: #1e1f22; }
.content { white-space: pre-wrap; word-break: break-word; margin-top: 2px; }
details { margin-top: 4px; font-size: 13px; }
details summary { cursor: pointer; color: #949ba4; }
.attachment a { color: #00a8fc; }
.attachment img { display: block; max-width: 400px; max-height: 300px; border-radius: 4px; margin-top: 4px; }
.reaction { background: #2b2d31; border-radius: 8px; padding: 2px 8px; margin-right: 4px; display: inline-block; }
#jump { position: fixed; right: 24px; bottom: 24px; background: #5865f2; color: #fff; border: none; border-radius: 50%; width: 40px; height: 40px; cursor: pointer; font-size: 18px; }
</style>
</head>
<body>
<header>
<h1>#{{.Channel}}</h1>
<input id="search" type="search" placeholder="Filter messages...">
<select id="author">
<option value="">All authors</option>
{{range .Authors}}<option value="{{.}}">{{.}}</option>
{{end}}</select>
</header>
<main id="log">
{{range .Entries}}<article class="msg" data-author="{{.Author}}">
<div class="meta"><span class="time">{{.Timestamp}}</span><span class="author">{{.Author}}</span><span class="tag tag-{{.TagClass}}">{{.Tag}}</span></div>
<div class="content">{{.Content}}</div>
{{if or .Attachments .Reactions}}<details>
<summary>Details</summary>
{{range .Attachments}}<div class="attachment"><a href="{{.URL}}" rel="noreferrer">{{.Name}}</a>{{if .Image}}<img src="{{.URL}}" alt="{{.Name}}" loading="lazy">{{end}}</div>
{{end}}{{if .Reactions}}<div class="reactions">{{range .Reactions}}<span class="reaction">{{.Emoji}} {{.Count}}</span>{{end}}</div>
{{end}}</details>
{{end}}</article>
{{end}}</main>
<button id="jump" title="Jump to latest">&#8595;</button>
<script>
var search = document.getElementById('search');
var author = document.getElementById('author');
function apply() {
  var q = search.value.toLowerCase();
  var a = author.value;
  var msgs = document.querySelectorAll('.msg');
  for (var i = 0; i < msgs.length; i++) {
    var hit = (!q || msgs[i].textContent.toLowerCase().indexOf(q) >= 0) &&
              (!a || msgs[i].getAttribute('data-author') === a);
    msgs[i].style.display = hit ? '' : 'none';
  }
}
search.addEventListener('input', apply);
author.addEventListener('change', apply);
document.getElementById('jump').addEventListener('click', function () {
  window.scrollTo(0, document.body.scrollHeight);
});
</script>
</body>
</html>
`))
