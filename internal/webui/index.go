package webui

const indexHTML = `<!doctype html>
<html lang="ja">
<head>
  <meta charset="utf-8" />
  <meta name="viewport" content="width=device-width, initial-scale=1" />
  <title>kaiseki 管理画面</title>
  <style>
    body { font-family: "Segoe UI", "Hiragino Sans", sans-serif; margin: 0; background: linear-gradient(145deg,#f7fafc,#e9eef7); color: #1f2937; }
    .wrap { max-width: 960px; margin: 0 auto; padding: 20px; }
    .panel { background: #fff; border-radius: 12px; box-shadow: 0 8px 30px rgba(15,23,42,.08); padding: 16px; margin-bottom: 16px; }
    h2 { margin-top: 0; }
    table { width: 100%; border-collapse: collapse; }
    th, td { text-align: left; padding: 8px; border-bottom: 1px solid #e5e7eb; vertical-align: top; }
    input, textarea, select { width: 100%; box-sizing: border-box; padding: 8px; border: 1px solid #cbd5e1; border-radius: 8px; font: inherit; }
    textarea { min-height: 90px; resize: vertical; }
    .row { display: flex; gap: 8px; margin-top: 10px; }
    .row > * { flex: 1; }
    button { padding: 8px 14px; border: 0; border-radius: 8px; background: #0f766e; color: #fff; cursor: pointer; }
    button:hover { background: #0d9488; }
    button.danger { background: #b91c1c; }
    button.danger:hover { background: #dc2626; }
    .stats { display: flex; gap: 16px; }
    .stat { flex: 1; text-align: center; background: #f9fafb; border-radius: 8px; padding: 12px; }
    .stat b { display: block; font-size: 1.6em; }
    #test-result { white-space: pre-wrap; background: #f9fafb; border: 1px solid #d1d5db; border-radius: 8px; padding: 12px; min-height: 60px; }
    .badge { display: inline-block; padding: 2px 8px; border-radius: 999px; color: #fff; font-size: .8em; }
  </style>
</head>
<body>
  <div class="wrap">
    <div class="panel">
      <h2>統計</h2>
      <div class="stats" id="stats"></div>
    </div>

    <div class="panel">
      <h2>プロンプト一覧</h2>
      <table>
        <thead><tr><th>名前</th><th>タイプ</th><th>デフォルト</th><th></th></tr></thead>
        <tbody id="prompt-rows"></tbody>
      </table>
    </div>

    <div class="panel">
      <h2>プロンプト作成・編集</h2>
      <input type="hidden" id="edit-id" />
      <div class="row">
        <input id="p-name" placeholder="プロンプト名" />
        <select id="p-type"></select>
      </div>
      <div class="row"><textarea id="p-system" placeholder="システムプロンプト"></textarea></div>
      <div class="row"><textarea id="p-user" placeholder="ユーザープロンプト"></textarea></div>
      <div class="row">
        <button id="save">保存</button>
        <button id="reset">クリア</button>
      </div>
    </div>

    <div class="panel">
      <h2>プロンプトテスト</h2>
      <div class="row"><textarea id="t-system" placeholder="システムプロンプト"></textarea></div>
      <div class="row"><textarea id="t-user" placeholder="ユーザープロンプト"></textarea></div>
      <div class="row">
        <button id="run-test">実行</button>
        <button id="run-debug">デバッグ（API呼び出しなし）</button>
      </div>
      <div class="row"><div id="test-result"></div></div>
    </div>
  </div>
  <script>
    const $ = (id) => document.getElementById(id);
    let categories = [];

    async function loadCategories() {
      categories = await (await fetch('/api/categories')).json();
      $('p-type').innerHTML = categories.map(c => '<option value="' + c.key + '">' + c.label + '</option>').join('');
    }

    async function loadStats() {
      const s = await (await fetch('/api/stats')).json();
      $('stats').innerHTML =
        '<div class="stat"><b>' + s.totalPrompts + '</b>登録プロンプト</div>' +
        '<div class="stat"><b>' + s.todayPrompts + '</b>本日作成</div>' +
        '<div class="stat"><b>' + s.monthPrompts + '</b>今月作成</div>';
    }

    async function loadPrompts() {
      const [prompts, settings] = await Promise.all([
        (await fetch('/api/prompts')).json(),
        (await fetch('/api/bot-settings')).json(),
      ]);
      const defaultID = settings.default_prompt_id;
      $('prompt-rows').innerHTML = prompts.map(p => {
        const cat = categories.find(c => c.key === p.analysis_type);
        const badge = cat ? '<span class="badge" style="background:' + cat.color + '">' + cat.label + '</span>' : (p.analysis_type || '-');
        const isDefault = p.id === defaultID;
        return '<tr><td>' + p.name + '</td><td>' + badge + '</td>' +
          '<td>' + (isDefault ? '★' : '<button data-default="' + p.id + '">設定</button>') + '</td>' +
          '<td><button data-edit="' + p.id + '">編集</button> <button class="danger" data-del="' + p.id + '">削除</button></td></tr>';
      }).join('') || '<tr><td colspan="4">プロンプトがありません</td></tr>';
      $('prompt-rows').dataset.prompts = JSON.stringify(prompts);
    }

    function promptBody() {
      return JSON.stringify({
        name: $('p-name').value,
        systemPrompt: $('p-system').value,
        userPrompt: $('p-user').value,
        analysisType: $('p-type').value,
      });
    }

    async function post(url, method, body) {
      const resp = await fetch(url, { method, headers: {'Content-Type':'application/json'}, body });
      const data = await resp.json();
      if (!resp.ok) alert(data.error || 'エラーが発生しました');
      return resp.ok;
    }

    $('save').addEventListener('click', async () => {
      const id = $('edit-id').value;
      const ok = id
        ? await post('/api/prompts/' + id, 'PUT', promptBody())
        : await post('/api/prompts', 'POST', promptBody());
      if (ok) { resetForm(); await refresh(); }
    });

    function resetForm() {
      $('edit-id').value = '';
      $('p-name').value = $('p-system').value = $('p-user').value = '';
    }
    $('reset').addEventListener('click', resetForm);

    $('prompt-rows').addEventListener('click', async (e) => {
      const t = e.target;
      if (t.dataset.edit) {
        const p = JSON.parse($('prompt-rows').dataset.prompts).find(x => x.id === t.dataset.edit);
        $('edit-id').value = p.id;
        $('p-name').value = p.name;
        $('p-system').value = p.system_prompt;
        $('p-user').value = p.user_prompt;
        $('p-type').value = p.analysis_type;
      } else if (t.dataset.del) {
        if (!confirm('削除しますか？')) return;
        if (await post('/api/prompts/' + t.dataset.del, 'DELETE')) await refresh();
      } else if (t.dataset.default) {
        if (await post('/api/bot-settings', 'POST', JSON.stringify({ defaultPromptId: t.dataset.default }))) await refresh();
      }
    });

    async function runTest(debug) {
      const resp = await fetch('/api/test', {
        method: 'POST',
        headers: {'Content-Type':'application/json'},
        body: JSON.stringify({ systemPrompt: $('t-system').value, userPrompt: $('t-user').value, debug }),
      });
      const data = await resp.json();
      if (!resp.ok) { $('test-result').textContent = data.error || 'エラーが発生しました'; return; }
      $('test-result').textContent = debug
        ? 'SYSTEM:\n' + data.debug.systemPrompt + '\n\nUSER:\n' + data.debug.userPrompt
        : data.result;
    }
    $('run-test').addEventListener('click', () => runTest(false));
    $('run-debug').addEventListener('click', () => runTest(true));

    async function refresh() { await Promise.all([loadPrompts(), loadStats()]); }
    loadCategories().then(refresh);
  </script>
</body>
</html>`
