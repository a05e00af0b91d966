package constant

// Prompts shown while walking a user through the dialogue
const (
	MsgChooseMode    = "どれにする？"
	MsgChooseGenre   = "ジャンルを選んで！"
	MsgChooseStyle   = "さっぱり or がっつり？"
	MsgAskRequest    = "要望があればこのメッセージに返信して!"
	MsgThinking      = "🤔 考え中です..."
	LabelBuyOut      = "外食／コンビニガチャ"
	LabelCook        = "作るガチャ"
	LabelConsult     = "コンサル"
	LabelRequestNone = "なし"
	LabelRecipe      = "作り方を見る"
	LabelDetail      = "どんな料理？"
)

// Guidance for users who cannot continue
const (
	MsgAtCapacity      = "現在対応できる人数が上限に達しています。少し待ってね！"
	MsgBusy            = "他のユーザーが操作中です。待ってね～。"
	MsgNoActiveSession = "この操作の受付は終了しました。もう一度メンションしてね！"
	MsgNeedsGenreFirst = "先にジャンルを選んでください！"
	MsgStaleChoice     = "その選択はもう済んでいます。"
	MsgExpiredChoice   = "そのボタンは期限切れです。もう一度呼んでね！"
	MsgConsultOngoing  = "コンサル中です。続けて選んでね！"
	MsgNoGenres        = "ジャンルが登録されていません。"
	MsgNoStyles        = "スタイルが登録されていません。"
)

// Results of the food selection chains
const (
	MsgStorageApology    = "トラブルブリブリ"
	MsgNoCandidate       = "候補が見つかりませんでした。"
	MsgNoMatchingFood    = "条件に合う料理が見つかりませんでした。"
	FmtQuickPick         = "%s！"
	FmtCatalogSuggestion = "ほな「%s」かも！"
	FmtAISuggestion      = "ほな%sでどうや！"
	FmtFallbackSuggest   = "「%s」はいかがでしょう？"
	FmtRecipeHit         = "%s\n%s"
	MsgNoRecipe          = "レシピが見つかりませんでした。がんばって！"
	MsgNoDetail          = "詳しい情報が見つかりませんでした。"
)

// History ranking
const (
	FmtHistoryLine    = "%d位： %s%s {%s（%s）}"
	MsgNoHistory      = "履歴が見つかりませんでした。"
	MsgHistoryFailure = "履歴を取得できませんでした。"
	HistoryKeyword    = "過去のおすすめ"
	HistoryRankLimit  = 3
)

// HistoryMarks emphasises ranks 1 to 3
var HistoryMarks = []string{"!!!", "!!", "!"}

// Master list commands
const (
	GenreListHeader   = "📚 登録ジャンル一覧："
	StyleListHeader   = "🎨 登録スタイル一覧："
	FmtMasterLine     = "%s = %s"
	MsgReloaded       = "マスタを再読み込みしました。"
	MsgReloadFailed   = "マスタの読み込みに失敗しました。"
	CommandDescGenres = "ジャンル一覧を表示します"
	CommandDescStyles = "スタイル一覧を表示します"
	CommandDescReload = "ジャンルとスタイルを再読み込みします"
)

// Generative prompts. Placeholders are filled with fmt.Sprintf.
const (
	DishSuggestionPromptV1 = `ユーザーが「%s」を食べたい気分で、「%s」な料理が食べたいと言っています。
また、以下の要望があります。「%s」
おすすめの料理を1つ、簡潔に料理名だけ教えてください。`

	AbbreviatedRecipePromptV1 = `「%s」の作り方を簡潔に教えてください。
材料と手順をそれぞれ箇条書きで、全体で300文字以内にまとめてください。`

	DishDescriptionPromptV1 = `「%s」はどんな料理ですか？
特徴や味わいを2〜3文で簡潔に説明してください。`
)
