package cli

// arcPage is the arc-diagram page served at /. It posts the pasted CPG
// export to /reduce and draws the first returned graph as a D3 arc diagram:
// nodes on a horizontal axis, links as arcs above it, colored by group.
const arcPage = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>cpg-reducer</title>
<script src="https://d3js.org/d3.v7.min.js"></script>
<style>
  body { font-family: sans-serif; margin: 2rem; }
  textarea { width: 100%; height: 10rem; font-family: monospace; }
  #controls { margin: 0.5rem 0; }
  .node-label { font-size: 10px; }
  #error { color: #b00; white-space: pre-wrap; }
</style>
</head>
<body>
<h1>cpg-reducer</h1>
<p>Paste a CPG export (DOT) and reduce it to its cross-file structure.</p>
<textarea id="input" placeholder="digraph { ... }"></textarea>
<div id="controls">
  <label>node type
    <select id="nodeType">
      <option value="compartment" selected>compartment</option>
      <option value="function">function</option>
    </select>
  </label>
  <button id="go">Reduce</button>
</div>
<div id="error"></div>
<svg id="chart" width="960" height="500"></svg>
<script>
document.getElementById("go").addEventListener("click", async () => {
  const errBox = document.getElementById("error");
  errBox.textContent = "";
  const nodeType = document.getElementById("nodeType").value;
  const res = await fetch("/reduce?node_type=" + nodeType, {
    method: "POST",
    body: document.getElementById("input").value,
  });
  if (!res.ok) {
    errBox.textContent = await res.text();
    return;
  }
  const body = await res.json();
  if (!body.graphs || body.graphs.length === 0) {
    errBox.textContent = "no graphs in input";
    return;
  }
  let data;
  try {
    data = JSON.parse(body.graphs[0].output);
  } catch (e) {
    errBox.textContent = "output is not drawable: " + e.message +
      "\n\n" + body.graphs[0].output;
    return;
  }
  draw(data);
});

function draw(data) {
  const svg = d3.select("#chart");
  svg.selectAll("*").remove();
  const width = +svg.attr("width");
  const height = +svg.attr("height");
  const margin = 40;
  const y = height - margin;

  const x = d3.scalePoint()
    .domain(data.nodes.map(d => d.id))
    .range([margin, width - margin]);
  const color = d3.scaleOrdinal(d3.schemeCategory10)
    .domain([...new Set(data.nodes.map(d => d.group))]);

  svg.append("g").selectAll("path")
    .data(data.links)
    .join("path")
    .attr("fill", "none")
    .attr("stroke", "#888")
    .attr("stroke-width", d => Math.max(1, Math.log(+d.value || 1)))
    .attr("d", d => {
      const x1 = x(d.source), x2 = x(d.target);
      const r = Math.abs(x2 - x1) / 2;
      return "M" + x1 + "," + y + "A" + r + "," + r + " 0 0,1 " + x2 + "," + y;
    });

  svg.append("g").selectAll("circle")
    .data(data.nodes)
    .join("circle")
    .attr("cx", d => x(d.id))
    .attr("cy", y)
    .attr("r", 5)
    .attr("fill", d => color(d.group))
    .append("title").text(d => d.id + " (" + d.group + ")");

  svg.append("g").selectAll("text")
    .data(data.nodes)
    .join("text")
    .attr("class", "node-label")
    .attr("transform", d => "translate(" + x(d.id) + "," + (y + 12) + ") rotate(45)")
    .text(d => d.id);
}
</script>
</body>
</html>
`
